package catalog

// builtin holds the descriptors compiled into the binary. A YAML catalog
// loaded at runtime replaces this set entirely rather than merging with it.
var builtin = []Descriptor{
	{
		Name:          "gpt-3.5-turbo-instruct",
		Type:          TypeBase,
		Provider:      ProviderOpenAI,
		ContextWindow: 4096,
		Characteristics: Characteristics{
			Description:          "Base completion model without instruction tuning",
			FineTuningStrategy:   "Pre-trained on diverse text data",
			InstructionFollowing: "Limited - requires careful prompting",
			UseCases:             "Text completion, creative writing, code generation with examples",
		},
		Pricing: Pricing{PromptPer1K: 0.0015, CompletionPer1K: 0.0020},
	},
	{
		Name:          "distilgpt2",
		Type:          TypeBase,
		Provider:      ProviderHuggingFace,
		ContextWindow: 1024,
		Characteristics: Characteristics{
			Description:          "Smaller, faster version of GPT-2",
			FineTuningStrategy:   "Distilled from GPT-2",
			InstructionFollowing: "Limited - text completion style",
			UseCases:             "Text generation, completion, creative writing",
		},
	},
	{
		Name:          "gpt-3.5-turbo",
		Type:          TypeInstruct,
		Provider:      ProviderOpenAI,
		ContextWindow: 16385,
		Characteristics: Characteristics{
			Description:          "Instruction-tuned chat model",
			FineTuningStrategy:   "RLHF (Reinforcement Learning from Human Feedback)",
			InstructionFollowing: "Excellent - follows instructions reliably",
			UseCases:             "Chat, Q&A, instruction following, general assistance",
		},
		Pricing: Pricing{PromptPer1K: 0.0005, CompletionPer1K: 0.0015},
	},
	{
		Name:          "claude-3-haiku-20240307",
		Type:          TypeInstruct,
		Provider:      ProviderAnthropic,
		ContextWindow: 200000,
		Characteristics: Characteristics{
			Description:          "Constitutional AI instruction-tuned model",
			FineTuningStrategy:   "Constitutional AI + RLHF",
			InstructionFollowing: "Excellent - helpful, harmless, honest",
			UseCases:             "Complex reasoning, analysis, safe AI assistance",
		},
		Pricing: Pricing{PromptPer1K: 0.00025, CompletionPer1K: 0.00125},
	},
	{
		Name:          "microsoft/DialoGPT-small",
		Type:          TypeInstruct,
		Provider:      ProviderHuggingFace,
		ContextWindow: 1024,
		Characteristics: Characteristics{
			Description:          "Small conversational model",
			FineTuningStrategy:   "Fine-tuned for dialogue",
			InstructionFollowing: "Good - conversational responses",
			UseCases:             "Chat, conversation, dialogue systems",
		},
	},
	{
		Name:          "ft:gpt-3.5-turbo",
		Type:          TypeFineTuned,
		Provider:      ProviderOpenAI,
		ContextWindow: 16385,
		Characteristics: Characteristics{
			Description:          "Custom fine-tuned model (example)",
			FineTuningStrategy:   "Task-specific fine-tuning on custom dataset",
			InstructionFollowing: "Domain-specific - optimized for specific tasks",
			UseCases:             "Specialized tasks, domain-specific applications",
		},
		Pricing: Pricing{PromptPer1K: 0.0030, CompletionPer1K: 0.0060},
	},
	{
		Name:          "microsoft/DialoGPT-medium",
		Type:          TypeFineTuned,
		Provider:      ProviderHuggingFace,
		ContextWindow: 1024,
		Characteristics: Characteristics{
			Description:          "Fine-tuned for conversational responses",
			FineTuningStrategy:   "Fine-tuned on Reddit conversations",
			InstructionFollowing: "Moderate - conversational but not instruction-specific",
			UseCases:             "Dialogue systems, chatbots, conversational AI",
		},
	},
}

// Default returns the built-in catalog. It panics only if the compiled-in
// table is invalid, which is a programming error caught by tests.
func Default() *Catalog {
	c, err := New(builtin...)
	if err != nil {
		panic("catalog: invalid builtin table: " + err.Error())
	}
	return c
}
