package content

import "context"

const MockModel = "mock"

// MockProvider returns fixed sample material. It needs no API key and is
// used for local development and demos.
type MockProvider struct{}

func (MockProvider) Model() string {
	return MockModel
}

func (MockProvider) GenerateSummary(context.Context, string) (string, error) {
	return mockSummary, nil
}

func (MockProvider) GenerateQuiz(context.Context, string, int) (string, error) {
	return mockQuiz, nil
}

const mockSummary = `### Summary of Prompt Engineering

• **Definition**:
• Prompt engineering is a practice in natural language processing (NLP) where text describes the task for AI to generate an appropriate output.

• **Prompts**:
• Detailed descriptions of desired outputs from AI models, guiding user-model interaction.
• Effectiveness hinges on the quality of prompt design.

• **Examples of Prompts**:
• **Text Prompts**: Inquiries or tasks for language models (e.g., generating articles, defining terms).
• **Code Prompts**: Requests for coding tasks (e.g., writing functions, debugging code).
• **Image Prompts**: Descriptions for generating visual content (e.g., illustrations, scenes).

• **Tips for Effective Prompt Engineering**:
• **Role Playing**: Specify the role of the model to direct the interaction.
• **Clarity**: Be concise and clear to minimize ambiguity.
• **Context**: Provide sufficient background information.
• **Iteration**: Refine prompts based on output quality.`

const mockQuiz = `Question 1: What is the primary goal of prompt engineering in agent-based systems?
a) To optimize agent memory
b) To refine inputs for better output control
c) To improve agent hardware
d) To increase computational power
Answer: b) To refine inputs for better output control

Question 2: In which domain is prompt engineering most commonly used for enhancing agent performance?
a) Image recognition
b) Conversational AI
c) Data processing
d) Video editing
Answer: b) Conversational AI

Question 3: What is a key characteristic of effective prompts?
a) They should be as long as possible
b) They should be vague and open-ended
c) They should be clear and specific
d) They should avoid any context
Answer: c) They should be clear and specific

Question 4: Which of the following is NOT an example of prompt engineering application?
a) Text generation
b) Code writing
c) Hardware manufacturing
d) Image generation
Answer: c) Hardware manufacturing

Question 5: What does "context window" refer to in prompt engineering?
a) The visual display of the prompt
b) The amount of text a model can process at once
c) The time taken to generate output
d) The number of users accessing the model
Answer: b) The amount of text a model can process at once`
