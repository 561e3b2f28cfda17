package bot

// User-facing message strings. Everything the bot ever says lives here.
const (
	MsgStart = `Hi! I'm Voxnote, your voice note assistant.

Send me a voice message and I will:
1️⃣ Transcribe it to text
2️⃣ Write a short summary
3️⃣ Keep it for later

📝 Commands:
/sum [YYYY-MM-DD] - digest of summaries for a date
/delete - delete a record (reply to its summary message)`

	MsgHelp = `📝 Available commands:
/sum [YYYY-MM-DD] - digest of summaries for a date (default: today)
/delete - delete a record (reply to its summary message)

To edit a summary or attach a note, reply to the summary message with your text.`

	MsgUnknownCommand   = "Unknown command. Use /help for the list of commands."
	MsgDateFormatError  = "❗️ Invalid date format. Use YYYY-MM-DD"
	MsgNoRecordsForDate = "ℹ️ No summaries for %s."

	MsgDeleteSuccess  = "✅ Record #%d deleted."
	MsgDeleteNotFound = "❓ Record not found."
	MsgDeleteGuidance = `❓ Could not tell which record to delete.
Use one of:
1. /delete #123
2. Reply to the voice message
3. Reply to the summary message`

	MsgEditPrompt   = "What would you like to do with the text?"
	MsgEditGuidance = "To edit a summary or attach a note, reply to the summary message (the one starting with #ID)."

	MsgSummaryUpdated = "✅ Summary updated."
	MsgNoteAdded      = "✅ Note added."
	MsgCancelled      = "Operation cancelled."

	MsgProcessing        = "🎙 Processing your voice note..."
	MsgRecognitionFailed = "Could not recognize any speech. Please try again."
	MsgProcessingFailed  = "Something went wrong while processing the message. Please try again later."
)

// Inline keyboard labels and callback payloads for the edit dialog.
const (
	ButtonEditSummary = "Edit summary"
	ButtonAddNote     = "Add note"
	ButtonCancel      = "Cancel"

	CallbackEdit   = "edit"
	CallbackNote   = "note"
	CallbackCancel = "cancel"
)

// Formatting templates.
const (
	summaryReplyTemplate = "#%d\n📌 Summary:\n```\n%s\n```"
	digestLineTemplate   = "%s — #%d: %s"
	digestNoteTemplate   = " └ Note: %s"
)
