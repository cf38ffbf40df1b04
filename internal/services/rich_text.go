package services

import "strings"

const (
	emphasisOpenTag  = "<strong>"
	emphasisCloseTag = "</strong>"
)

// Segment is a run of label text; Emphasized runs are highlighted on print.
type Segment struct {
	Text       string `json:"text"`
	Emphasized bool   `json:"emphasized"`
}

type RichText []Segment

func (text RichText) PlainText() string {
	var builder strings.Builder
	for _, segment := range text {
		builder.WriteString(segment.Text)
	}
	return builder.String()
}

func (text RichText) EmphasizedTexts() []string {
	result := make([]string, 0, len(text))
	for _, segment := range text {
		if segment.Emphasized {
			result = append(result, segment.Text)
		}
	}
	return result
}

type richTextBuilder struct {
	segments RichText
}

func (builder *richTextBuilder) plain(text string) *richTextBuilder {
	return builder.add(Segment{Text: text})
}

func (builder *richTextBuilder) emphasized(text string) *richTextBuilder {
	return builder.add(Segment{Text: text, Emphasized: true})
}

func (builder *richTextBuilder) append(text RichText) *richTextBuilder {
	for _, segment := range text {
		builder.add(segment)
	}
	return builder
}

func (builder *richTextBuilder) add(segment Segment) *richTextBuilder {
	if segment.Text == "" {
		return builder
	}
	last := len(builder.segments) - 1
	if last >= 0 && builder.segments[last].Emphasized == segment.Emphasized {
		builder.segments[last].Text += segment.Text
		return builder
	}
	builder.segments = append(builder.segments, segment)
	return builder
}

func (builder *richTextBuilder) build() RichText {
	result := make(RichText, len(builder.segments))
	for index, segment := range builder.segments {
		result[index] = Segment{Text: ToBanglaNumerals(segment.Text), Emphasized: segment.Emphasized}
	}
	return result
}

// ParseEmphasis converts stored counseling markup into segments. Only the
// <strong> marker is recognized; an unclosed marker emphasizes the rest.
func ParseEmphasis(raw string) RichText {
	builder := &richTextBuilder{}
	rest := raw
	for rest != "" {
		open := strings.Index(rest, emphasisOpenTag)
		if open < 0 {
			builder.plain(rest)
			break
		}
		builder.plain(rest[:open])
		rest = rest[open+len(emphasisOpenTag):]

		closing := strings.Index(rest, emphasisCloseTag)
		if closing < 0 {
			builder.emphasized(rest)
			break
		}
		builder.emphasized(rest[:closing])
		rest = rest[closing+len(emphasisCloseTag):]
	}
	return builder.segments
}

// StripEmphasis returns the counseling text without emphasis markup.
func StripEmphasis(raw string) string {
	return ParseEmphasis(raw).PlainText()
}
