package llm

import (
	"context"
	"fmt"
)

// ChatSystemPrompt is the persona used for plain conversation.
const ChatSystemPrompt = "You are Munin, an advanced AI assistant integrated with a " +
	"markdown note vault. You help users manage their knowledge base, create notes, " +
	"and find information. Respond in a helpful, friendly manner."

const notePrompt = `Generate a detailed markdown note based on the following content. Include clear explanations, examples, and structured sections (e.g., Overview, Characteristics, Implementation Example, and Code Explanation). Return the note in valid markdown format. If a followup is provided, append it as a continuation link at the end.

Content:
%s

Followup (if any): %s`

// GenerateNote asks the model to produce a full markdown note body from the
// source content.
func GenerateNote(ctx context.Context, client Client, model, source, followup string) (string, error) {
	return client.Complete(ctx, model, []Message{
		{Role: "user", Content: fmt.Sprintf(notePrompt, source, followup)},
	})
}
