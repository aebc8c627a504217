package main

import "memorybank/models"

// defaultPrompts is the built-in prompt library, seeded the first time the
// table is empty. Categories and depths follow the product's fixed sets:
// categories childhood/family/milestones/reflections/gratitude/relationships/
// career/travel/traditions/lessons, depths light/medium/deep.
var defaultPrompts = []models.DailyPrompt{
	{QuestionText: "What is your earliest childhood memory?", Category: "childhood", Depth: "medium"},
	{QuestionText: "What games did you play as a child?", Category: "childhood", Depth: "light"},
	{QuestionText: "Describe the house you grew up in.", Category: "childhood", Depth: "medium"},
	{QuestionText: "What did a typical family dinner look like when you were young?", Category: "family", Depth: "light"},
	{QuestionText: "What is something your parents taught you that you still carry today?", Category: "family", Depth: "deep"},
	{QuestionText: "Tell the story of how your parents or grandparents met.", Category: "family", Depth: "medium"},
	{QuestionText: "What moment in your life are you most proud of?", Category: "milestones", Depth: "deep"},
	{QuestionText: "Describe the day you started your first job.", Category: "milestones", Depth: "medium"},
	{QuestionText: "What is a decision that changed the course of your life?", Category: "reflections", Depth: "deep"},
	{QuestionText: "If you could relive one ordinary day, which would it be?", Category: "reflections", Depth: "medium"},
	{QuestionText: "What small thing are you grateful for today?", Category: "gratitude", Depth: "light"},
	{QuestionText: "Who has shown you unexpected kindness, and how?", Category: "gratitude", Depth: "medium"},
	{QuestionText: "Who was your first best friend, and what did you do together?", Category: "relationships", Depth: "light"},
	{QuestionText: "Describe a friendship that shaped who you are.", Category: "relationships", Depth: "deep"},
	{QuestionText: "What did you want to be when you grew up, and what happened?", Category: "career", Depth: "medium"},
	{QuestionText: "What is the best piece of advice a colleague ever gave you?", Category: "career", Depth: "light"},
	{QuestionText: "What is the most memorable trip you have ever taken?", Category: "travel", Depth: "medium"},
	{QuestionText: "Describe a place that felt like another world the first time you saw it.", Category: "travel", Depth: "medium"},
	{QuestionText: "What family tradition do you hope never disappears?", Category: "traditions", Depth: "medium"},
	{QuestionText: "How did your family celebrate holidays when you were growing up?", Category: "traditions", Depth: "light"},
	{QuestionText: "What is a lesson you learned the hard way?", Category: "lessons", Depth: "deep"},
	{QuestionText: "What would you tell your twenty-year-old self?", Category: "lessons", Depth: "deep"},
}
