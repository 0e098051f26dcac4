// Package export compiles interview records into .docx documents.
//
// Compilation is split in two: a pure compiler that turns an interview into
// an ordered list of layout blocks, and a thin renderer that serializes
// blocks through the docx library. Everything that can go wrong with content
// lives in the compiler, where it is testable without touching the library.
package export

import (
	"fmt"
	"time"

	"github.com/opscapture/interview-backend/internal/domain"
)

// DocType names the two supported document layouts. The value doubles as the
// filename suffix.
type DocType string

const (
	DocOperationsManual DocType = "operations_manual"
	DocQATranscript     DocType = "qa_transcript"
)

// BlockKind discriminates layout blocks.
type BlockKind int

const (
	KindHeading BlockKind = iota
	KindParagraph
	KindTable
)

// Run is one styled stretch of text inside a heading or paragraph.
type Run struct {
	Text  string
	Bold  bool
	Color string // hex RGB, no leading '#'; empty for default
	Size  string // half-point font size; empty for default
}

// Cell is one styled table cell.
type Cell struct {
	Text  string
	Bold  bool
	Color string
}

// Block is one layout element of the compiled document.
type Block struct {
	Kind  BlockKind
	Level int // heading level, 1 or 2
	Runs  []Run
	Rows  [][]Cell
}

// QAPair is one extracted question/answer exchange.
type QAPair struct {
	Question string
	Answer   string
	Answered time.Time
}

// Status colors used in the metadata table.
const (
	colorAmber = "D97706"
	colorGreen = "15803D"
	colorRed   = "B91C1C"
)

const (
	sizeTitle   = "44"
	sizeHeading = "32"
)

// ExtractQA scans the history once, left to right, pairing AI questions with
// the SME answers that follow them. A newer AI entry overwrites an unanswered
// older one; an SME entry with no pending question is dropped. Only the
// stored speaker field decides roles.
func ExtractQA(history []domain.ConversationEntry) []QAPair {
	var pairs []QAPair
	pending := ""

	for _, e := range history {
		switch e.Speaker {
		case domain.SpeakerAI:
			pending = e.Text
		case domain.SpeakerSME:
			if pending == "" {
				continue
			}
			pairs = append(pairs, QAPair{
				Question: pending,
				Answer:   e.Text,
				Answered: e.Timestamp,
			})
			pending = ""
		}
	}

	return pairs
}

// FormatDuration renders the wall-clock span of an interview: plain minutes
// under an hour, hours plus minutes otherwise, with singular forms at 1.
func FormatDuration(created, updated time.Time) string {
	minutes := int(updated.Sub(created).Minutes())
	if minutes < 0 {
		minutes = 0
	}

	if minutes < 60 {
		return fmt.Sprintf("%d %s", minutes, plural(minutes, "minute"))
	}

	h, m := minutes/60, minutes%60
	return fmt.Sprintf("%d %s %d %s", h, plural(h, "hour"), m, plural(m, "minute"))
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}

// Filename derives the download filename: equipment name with every
// non-alphanumeric rune replaced by '_', then the date and document type.
func Filename(equipmentName string, date time.Time, docType DocType) string {
	sanitized := []rune(equipmentName)
	for i, r := range sanitized {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !isAlnum {
			sanitized[i] = '_'
		}
	}
	return fmt.Sprintf("%s_%s_%s.docx", string(sanitized), date.Format("2006-01-02"), docType)
}

// Compile turns an interview into the ordered block list for the given
// layout. now stamps the generation time in the statistics block. Returns an
// error, not a partial document, when required fields are missing.
func Compile(iv *domain.Interview, docType DocType, now time.Time) ([]Block, error) {
	if iv.EquipmentName == "" {
		return nil, fmt.Errorf("compile document: missing equipment name: %w", domain.ErrValidation)
	}
	if iv.CreatedAt.IsZero() {
		return nil, fmt.Errorf("compile document: missing creation time: %w", domain.ErrValidation)
	}

	var blocks []Block

	switch docType {
	case DocOperationsManual:
		blocks = append(blocks, heading(1, "Operations Manual"))
		blocks = append(blocks, heading(2, iv.EquipmentName))
	case DocQATranscript:
		blocks = append(blocks, heading(1, "Interview Transcript: "+iv.EquipmentName))
	default:
		return nil, fmt.Errorf("compile document: unknown document type %q", docType)
	}

	blocks = append(blocks, metadataTable(iv))

	if iv.Status == domain.StatusTerminated {
		blocks = append(blocks, Block{
			Kind: KindParagraph,
			Runs: []Run{{
				Text:  "This interview was ended early. The information below may be incomplete.",
				Bold:  true,
				Color: colorRed,
			}},
		})
	}

	pairs := ExtractQA(iv.History)
	blocks = append(blocks, contentBlocks(docType, pairs)...)
	blocks = append(blocks, statsBlocks(iv, len(pairs), now)...)

	return blocks, nil
}

// metadataTable builds the label/value summary table, with the status cell
// colored by lifecycle state.
func metadataTable(iv *domain.Interview) Block {
	sme := iv.SMEName
	if iv.SMETitle != "" {
		sme += ", " + iv.SMETitle
	}

	statusCell := Cell{Text: string(iv.Status), Bold: true}
	switch iv.Status {
	case domain.StatusInProgress:
		statusCell.Color = colorAmber
	case domain.StatusCompleted:
		statusCell.Color = colorGreen
	case domain.StatusTerminated:
		statusCell.Color = colorRed
	}

	return Block{
		Kind: KindTable,
		Rows: [][]Cell{
			{{Text: "Equipment", Bold: true}, {Text: iv.EquipmentName}},
			{{Text: "Location", Bold: true}, {Text: iv.EquipmentLocation}},
			{{Text: "Subject-Matter Expert", Bold: true}, {Text: sme}},
			{{Text: "Interview Date", Bold: true}, {Text: iv.CreatedAt.Format("January 2, 2006")}},
			{{Text: "Status", Bold: true}, statusCell},
		},
	}
}

// contentBlocks renders the extracted pairs in the layout's body style, or
// the explicit zero-entries message.
func contentBlocks(docType DocType, pairs []QAPair) []Block {
	if len(pairs) == 0 {
		return []Block{paragraph("No conversation was recorded for this interview.")}
	}

	var blocks []Block
	for i, p := range pairs {
		if docType == DocOperationsManual {
			blocks = append(blocks, heading(2, fmt.Sprintf("%d. %s", i+1, p.Question)))
			blocks = append(blocks, paragraph(p.Answer))
			continue
		}
		blocks = append(blocks, Block{
			Kind: KindParagraph,
			Runs: []Run{{Text: "Q: ", Bold: true}, {Text: p.Question}},
		})
		blocks = append(blocks, Block{
			Kind: KindParagraph,
			Runs: []Run{{Text: "A: ", Bold: true}, {Text: p.Answer}},
		})
	}
	return blocks
}

func statsBlocks(iv *domain.Interview, pairCount int, now time.Time) []Block {
	return []Block{
		heading(2, "Interview Statistics"),
		paragraph(fmt.Sprintf("Questions answered: %d", pairCount)),
		paragraph("Interview duration: " + FormatDuration(iv.CreatedAt, iv.UpdatedAt)),
		paragraph("Generated: " + now.Format("January 2, 2006 15:04 MST")),
	}
}

func heading(level int, text string) Block {
	size := sizeHeading
	if level == 1 {
		size = sizeTitle
	}
	return Block{
		Kind:  KindHeading,
		Level: level,
		Runs:  []Run{{Text: text, Bold: true, Size: size}},
	}
}

func paragraph(text string) Block {
	return Block{Kind: KindParagraph, Runs: []Run{{Text: text}}}
}
