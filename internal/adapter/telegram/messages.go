package telegram

import (
	"fmt"

	"vakil-core/internal/domain/entity"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var commands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Welcome & feature overview"},
	{Command: "help", Description: "How to use VakilAI"},
	{Command: "analyze", Description: "Tips for uploading contracts"},
	{Command: "languages", Description: "Supported languages"},
	{Command: "about", Description: "About this project"},
}

const (
	replyNotPDF       = "⚠️ Please send a *PDF* file only."
	replyAsk          = "Ask me any legal question or send a PDF! ⚖️"
	replyRateLimited  = "⚠️ Too many requests. Please wait 60 seconds and try again."
	replyPDFFailed    = "❌ Something went wrong analyzing this PDF. Please try again."
	replyQuestionFail = "❌ Something went wrong. Please try again."
	replyWorking      = "📄 Got your contract!\n\n🔍 Analyzing every clause...\n⏳ About 15 seconds."
)

func replyTooLarge(maxBytes int64) string {
	return fmt.Sprintf("⚠️ File too large. Please send a PDF under %s.", entity.FormatSize(maxBytes))
}

const divider = "━━━━━━━━━━━━━━━"

func startText(name string) string {
	return fmt.Sprintf(`⚖️ *Hey %s! Welcome to VakilAI*, your free AI lawyer.

Most people sign contracts they don't understand. Rental agreements with hidden traps. Job offers with unfair clauses. Loan documents with buried penalties.

*I read them for you, in seconds, for free.*

`+divider+`
🔍 *What I can do:*

📄 *Analyze any contract PDF*
Send me a PDF and I'll break it down:
  • ⚠️ Risky clauses
  • ✅ Safe clauses
  • 🕵️ Hidden traps
  • 💰 Financial obligations
  • 🚪 How to exit
  • 💡 Verdict: Sign / Negotiate / Avoid

💬 *Answer legal questions*
Just type your question, no PDF needed.

🌍 *Multilingual*
Hindi, Tamil, Telugu, Bengali or English. I reply in your language automatically.

`+divider+`
*Send a PDF or ask any legal question to get started!*

Type /help to see all commands.`, name)
}

const helpText = `📖 *How to use VakilAI*

` + divider + `
📄 *Analyze a contract:*
Send any PDF file directly in this chat.

Works with:
  • Rental / lease agreements
  • Job offer letters
  • Loan documents
  • Freelance contracts
  • NDAs & Terms of Service

` + divider + `
💬 *Ask a legal question:*
Just type and send, no PDF needed.

Examples:
  • "Can my landlord keep my deposit?"
  • "What is a non-compete clause?"
  • "मेरा मकान मालिक किराया बढ़ा सकता है?"

` + divider + `
📋 *Commands:*
/start - Welcome message
/help - This guide
/analyze - Upload tips
/languages - Supported languages
/about - About this project`

const analyzeText = `📄 *Tips for best results*

` + divider + `
✅ *Works great with:*
  • Text-based PDFs (typed documents)
  • Rental & lease agreements
  • Employment contracts
  • Loan & finance documents
  • Terms of Service

⚠️ *May struggle with:*
  • Scanned / photographed PDFs
  • Password-protected files
  • Files over 10MB

💡 *Pro tip:* Add a caption in your language when sending the PDF and I'll reply in that language!

*Ready? Send your PDF now!* 📎`

const languagesText = `🌍 *Supported Languages*

I auto-detect your language and reply in it:

🇬🇧 English
🇮🇳 Hindi: हिंदी
🇮🇳 Tamil: தமிழ்
🇮🇳 Telugu: తెలుగు
🇮🇳 Bengali: বাংলা

` + divider + `
Just write in your language, no settings needed.

Example:
"क्या मैं बिना नोटिस के नौकरी छोड़ सकता हूँ?"
→ I'll reply in Hindi automatically.`

const aboutText = `⚖️ *About VakilAI*

` + divider + `
*The problem:*
4 billion people can't afford a lawyer.
In India, legal help costs ₹5,000 to ₹50,000 an hour.

People sign rental agreements, job contracts and loan documents they don't understand, and predatory clauses trap them.

` + divider + `
*The solution:*
VakilAI gives everyone a free lawyer in their pocket.

Upload any contract → full analysis in seconds → know exactly what you're agreeing to.

` + divider + `
🤖 Powered by Google Gemini AI
🌐 Web app also available
🆓 Completely free`
