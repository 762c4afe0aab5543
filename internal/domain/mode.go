package domain

// ChatMode defines how the bot frames the conversation: the system prompt,
// the parse mode for rendered answers, and the welcome message.
type ChatMode struct {
	Key            string
	Name           string
	WelcomeMessage string
	PromptStart    string
	ParseMode      string // "html" or "markdown"
}

// ChatModeKeys is the menu order for /mode.
var ChatModeKeys = []string{
	"assistant",
	"code_assistant",
	"artist",
	"english_tutor",
	"text_improver",
	"movie_expert",
}

var ChatModes = map[string]ChatMode{
	"assistant": {
		Key:            "assistant",
		Name:           "👩🏼‍🎓 General Assistant",
		WelcomeMessage: "👩🏼‍🎓 Hi, I'm <b>General Assistant</b>. How can I help you?",
		PromptStart:    "As an advanced chatbot Assistant, your primary goal is to assist users to the best of your ability. Always answer in the language the user asks in.",
		ParseMode:      "html",
	},
	"code_assistant": {
		Key:            "code_assistant",
		Name:           "👩🏼‍💻 Code Assistant",
		WelcomeMessage: "👩🏼‍💻 Hi, I'm <b>Code Assistant</b>. How can I help you?",
		PromptStart:    "As an advanced chatbot Code Assistant, your primary goal is to assist users to write code. Use code blocks in your answers and keep prose short.",
		ParseMode:      "markdown",
	},
	"artist": {
		Key:            "artist",
		Name:           "👩‍🎨 Artist",
		WelcomeMessage: "👩‍🎨 Hi, I'm <b>Artist</b>. I will generate images from your text prompts.",
		PromptStart:    "",
		ParseMode:      "html",
	},
	"english_tutor": {
		Key:            "english_tutor",
		Name:           "🇬🇧 English Tutor",
		WelcomeMessage: "🇬🇧 Hi, I'm <b>English Tutor</b>. How can I help you?",
		PromptStart:    "You're advanced chatbot English Tutor Assistant. You can help users learn and practice English: correct grammar, suggest better phrasing, and explain the rules behind your corrections.",
		ParseMode:      "html",
	},
	"text_improver": {
		Key:            "text_improver",
		Name:           "📝 Text Improver",
		WelcomeMessage: "📝 Hi, I'm <b>Text Improver</b>. Send me any text and I'll improve it.",
		PromptStart:    "As an advanced chatbot Text Improver Assistant, your primary goal is to correct spelling, fix mistakes and improve text sent by the user. Keep the meaning the same and make the text more literary.",
		ParseMode:      "html",
	},
	"movie_expert": {
		Key:            "movie_expert",
		Name:           "🎬 Movie Expert",
		WelcomeMessage: "🎬 Hi, I'm <b>Movie Expert</b>. How can I help you?",
		PromptStart:    "As an advanced movie expert chatbot, your primary goal is to assist users with movie recommendations, plot explanations and trivia.",
		ParseMode:      "html",
	},
}

// GetChatMode returns the mode for key, or ErrChatModeNotFound.
func GetChatMode(key string) (ChatMode, error) {
	m, ok := ChatModes[key]
	if !ok {
		return ChatMode{}, ErrChatModeNotFound
	}
	return m, nil
}
