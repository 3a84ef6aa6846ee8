package content

import "fmt"

// Platform identifies a social network a draft is written for.
type Platform string

const (
	Twitter   Platform = "twitter"
	LinkedIn  Platform = "linkedin"
	Instagram Platform = "instagram"
)

// TwitterCharLimit is the hard length limit shown next to Twitter drafts.
const TwitterCharLimit = 280

// Platforms returns every supported platform in display order.
func Platforms() []Platform {
	return []Platform{Twitter, LinkedIn, Instagram}
}

// ParsePlatform maps an identifier like "linkedin" to a Platform.
func ParsePlatform(s string) (Platform, error) {
	for _, p := range Platforms() {
		if string(p) == s {
			return p, nil
		}
	}

	return "", fmt.Errorf("unknown platform: %q", s)
}

// DisplayName returns the name shown to users.
func (p Platform) DisplayName() string {
	switch p {
	case Twitter:
		return "Twitter/X"
	case LinkedIn:
		return "LinkedIn"
	case Instagram:
		return "Instagram"
	default:
		return string(p)
	}
}

// CopywriterSystemPrompt is the persona shared by every platform request.
const CopywriterSystemPrompt = "You are an expert social media copywriter."

const twitterTemplate = `Convert this transcript into a compelling Twitter/X post (max 280 characters).
Rules:
- Hook in the first line
- Conversational, punchy tone
- End with insight or engagement prompt
- No hashtags unless essential
- Be authentic, not salesy

Transcript:`

const linkedInTemplate = `Convert this transcript into a LinkedIn post (800-1200 characters).
Rules:
- Strong hook in first 2 lines (this is what shows in preview)
- Use line breaks for readability
- Include a personal story or insight
- End with a question or call-to-action
- Professional but human tone
- Avoid corporate jargon

Transcript:`

const instagramTemplate = `Convert this transcript into an Instagram caption (under 2000 characters).
Rules:
- Engaging opening line
- Use emojis naturally (2-4 max)
- Tell a story or share value
- Include a call-to-action
- Add 3-5 relevant hashtags at the end
- Conversational, authentic tone

Transcript:`

// Prompt is a single completion request: persona, user prompt and output budget.
type Prompt struct {
	System    string
	User      string
	MaxTokens int64
}

// Template returns the platform's rules template.
func Template(p Platform) string {
	switch p {
	case Twitter:
		return twitterTemplate
	case LinkedIn:
		return linkedInTemplate
	case Instagram:
		return instagramTemplate
	default:
		return ""
	}
}

// MaxTokens returns the output budget for a platform: short for Twitter,
// medium for LinkedIn and Instagram.
func MaxTokens(p Platform) int64 {
	switch p {
	case Twitter:
		return 150
	case LinkedIn:
		return 500
	case Instagram:
		return 400
	default:
		return 0
	}
}

// PromptFor builds the request that turns transcript into a draft for p.
func PromptFor(p Platform, transcript string) Prompt {
	return Prompt{
		System:    CopywriterSystemPrompt,
		User:      Template(p) + "\n\n" + transcript,
		MaxTokens: MaxTokens(p),
	}
}
