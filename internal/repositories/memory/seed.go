package memory

import (
	"github.com/google/uuid"

	dbm "gynergy/internal/models/db_models"
)

// Kept in step with the seed migration so both datastores serve the same content.
var seedQuotes = []dbm.DailyQuote{
	{ItemModel: dbm.ItemModel{ID: uuid.MustParse("6d1f0a4e-4c1e-4b8a-9a51-0b7f2f7c1001"), CreatedAt: 1}, Quote: "The journey of a thousand miles begins with one step.", Author: "Lao Tzu"},
	{ItemModel: dbm.ItemModel{ID: uuid.MustParse("6d1f0a4e-4c1e-4b8a-9a51-0b7f2f7c1002"), CreatedAt: 2}, Quote: "Gratitude turns what we have into enough.", Author: "Anonymous"},
	{ItemModel: dbm.ItemModel{ID: uuid.MustParse("6d1f0a4e-4c1e-4b8a-9a51-0b7f2f7c1003"), CreatedAt: 3}, Quote: "What you do every day matters more than what you do once in a while.", Author: "Gretchen Rubin"},
	{ItemModel: dbm.ItemModel{ID: uuid.MustParse("6d1f0a4e-4c1e-4b8a-9a51-0b7f2f7c1004"), CreatedAt: 4}, Quote: "Act as if what you do makes a difference. It does.", Author: "William James"},
	{ItemModel: dbm.ItemModel{ID: uuid.MustParse("6d1f0a4e-4c1e-4b8a-9a51-0b7f2f7c1005"), CreatedAt: 5}, Quote: "Happiness is not something ready made. It comes from your own actions.", Author: "Dalai Lama"},
}

var seedActions = []dbm.DailyAction{
	{ItemModel: dbm.ItemModel{ID: uuid.MustParse("9b3c2e71-8f0d-4d6a-bb3e-5a1c0d2e2001"), CreatedAt: 1}, ActionText: "Write a thank-you note to someone who helped you this year.", TipText: "Be specific about what they did and how it changed your day."},
	{ItemModel: dbm.ItemModel{ID: uuid.MustParse("9b3c2e71-8f0d-4d6a-bb3e-5a1c0d2e2002"), CreatedAt: 2}, ActionText: "Take a 15 minute walk without your phone.", TipText: "Notice three things you have never paid attention to before."},
	{ItemModel: dbm.ItemModel{ID: uuid.MustParse("9b3c2e71-8f0d-4d6a-bb3e-5a1c0d2e2003"), CreatedAt: 3}, ActionText: "Tell a family member one thing you appreciate about them.", TipText: "Say it out loud rather than by message."},
	{ItemModel: dbm.ItemModel{ID: uuid.MustParse("9b3c2e71-8f0d-4d6a-bb3e-5a1c0d2e2004"), CreatedAt: 4}, ActionText: "Do one small kind thing for a stranger.", TipText: "Hold a door, pay a compliment, or let someone go first."},
	{ItemModel: dbm.ItemModel{ID: uuid.MustParse("9b3c2e71-8f0d-4d6a-bb3e-5a1c0d2e2005"), CreatedAt: 5}, ActionText: "Spend ten minutes tidying a space you use every day.", TipText: "Finish by noting how the space makes you feel afterwards."},
}
