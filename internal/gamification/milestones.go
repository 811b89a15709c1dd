package gamification

type Milestone struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// Milestones is the "mountain of growth", lowest first.
var Milestones = []Milestone{
	{Name: "Base Camp", Points: 0},
	{Name: "First Rest", Points: 50},
	{Name: "Halfway Point", Points: 100},
	{Name: "Final Push", Points: 200},
	{Name: "Summit", Points: 300},
}

type Progress struct {
	Current       Milestone
	Next          *Milestone
	PointsToNext  int
	PercentSummit float64
}

func ProgressFor(points int) Progress {
	if points < 0 {
		points = 0
	}

	p := Progress{Current: Milestones[0]}
	for i, m := range Milestones {
		if points < m.Points {
			next := Milestones[i]
			p.Next = &next
			p.PointsToNext = m.Points - points
			break
		}
		p.Current = m
	}

	summit := Milestones[len(Milestones)-1].Points
	if points >= summit {
		p.PercentSummit = 100
	} else {
		p.PercentSummit = float64(points) * 100 / float64(summit)
	}
	return p
}
