package response_models

type QuoteResponse struct {
	Date   string `json:"date"`
	Quote  string `json:"quote"`
	Author string `json:"author"`
}

type ActionResponse struct {
	Date   string `json:"date"`
	Action string `json:"action"`
	Tip    string `json:"tip,omitempty"`
}
