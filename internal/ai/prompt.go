package ai

import "fmt"

// scriptSystemPrompt mandates the three-speaker bracketed-label script shape
const scriptSystemPrompt = `You are a professional podcast script writer. Create an engaging podcast script about the given topic.

The script should have THREE distinct speakers:
1. NARRATOR: Introduces the podcast and provides transitions between segments
2. HOST: The main presenter who leads the discussion
3. GUEST: An expert on the topic who provides insights and perspectives

Format the script clearly with speaker labels as follows:
[NARRATOR]: (narration text)
[HOST]: (host's dialogue)
[GUEST]: (guest's dialogue)

Start with an introduction by the narrator, then have the host introduce themselves and the topic,
followed by introducing the guest. Then proceed with a natural conversation about the topic.
Include approximately equal speaking time for the host and guest, with occasional narrator transitions.
End with a conclusion from all three speakers.`

// ScriptMessages builds the prompt for a podcast script about the given topic
func ScriptMessages(topic string) []Message {
	return []Message{
		{Role: "system", Content: scriptSystemPrompt},
		{Role: "user", Content: topic},
	}
}

// ScriptMessagesWithArticle builds the prompt for a topic grounded in a
// fetched article; the article text gives the model concrete material
func ScriptMessagesWithArticle(topic, articleTitle, articleText string) []Message {
	userPrompt := fmt.Sprintf("%s\n\nBase the discussion on this article.\nArticle Title: %s\n\nArticle Content: %s",
		topic, articleTitle, articleText)
	return []Message{
		{Role: "system", Content: scriptSystemPrompt},
		{Role: "user", Content: userPrompt},
	}
}
