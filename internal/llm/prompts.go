package llm

import "strings"

// ExtractSystem is the system prompt for text-based extraction batches.
const ExtractSystem = `You extract calendar events from documents: assignments,
deadlines, classes, meetings, appointments, exams. ` + SchemaDescription

// ImageSystem adds the visual-layout rules for photographed or scanned
// calendars.
const ImageSystem = `You extract calendar events from images of calendars,
schedules and planners.
Rules:
- Resolve each item's date from grid column/row headers, or from the nearest
  preceding date heading.
- Never merge two items on the same day into one event.
- A multi-day span or arrow becomes one event per covered date.
- "noon" means 12:00. An item marked "due" with no time means 23:59.
- Times are 24-hour zero-padded.
` + SchemaDescription

// RepairSystem instructs the single bounded repair call.
const RepairSystem = `You convert arbitrary text into valid JSON. ` + SchemaDescription

// TextPrompt wraps one batch of document text.
func TextPrompt(text string) string {
	return "Extract every calendar event from the following document text.\n\n" + text
}

// ImagePrompt wraps the optional OCR line blocks accompanying image variants.
func ImagePrompt(ocrLines []string) string {
	var sb strings.Builder
	sb.WriteString("Extract every calendar event from the attached image(s).")
	if len(ocrLines) > 0 {
		sb.WriteString("\n\nOCR text regions (top to bottom, may contain recognition errors):\n")
		for _, line := range ocrLines {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// RepairPrompt wraps the malformed output for the repair call.
func RepairPrompt(raw string) string {
	return "The following text was supposed to be JSON matching the schema but is not parseable. " +
		"Reshape it into exactly the schema, preserving the data:\n\n" + raw
}
