package api

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/terraincognita07/dosalabel/internal/services"
)

const templateInputDateLayout = "2006-01-02"

func templateTranslate(messages map[string]string, key string) string {
	return translateMessage(messages, key)
}

// templateRichText escapes every segment and wraps emphasized runs, so stored
// markup never reaches the page unescaped.
func templateRichText(text services.RichText) template.HTML {
	var builder strings.Builder
	for _, segment := range text {
		escaped := template.HTMLEscapeString(segment.Text)
		if segment.Emphasized {
			builder.WriteString(`<strong class="label-em">`)
			builder.WriteString(escaped)
			builder.WriteString(`</strong>`)
			continue
		}
		builder.WriteString(escaped)
	}
	return template.HTML(builder.String())
}

func templateOptionalInt(value *int) string {
	if value == nil {
		return ""
	}
	return strconv.Itoa(*value)
}

func formatTemplateDate(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.Format(templateInputDateLayout)
}

func isTemplateSelected(current any, option any) bool {
	return fmt.Sprint(current) == fmt.Sprint(option)
}

func templateToJSON(value any) template.JS {
	serialized, err := json.Marshal(value)
	if err != nil {
		return template.JS("null")
	}
	return template.JS(serialized)
}

func templateDict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("dict requires key-value pairs")
	}
	result := make(map[string]any, len(values)/2)
	for index := 0; index < len(values); index += 2 {
		key, ok := values[index].(string)
		if !ok {
			return nil, fmt.Errorf("dict key at index %d is not a string", index)
		}
		result[key] = values[index+1]
	}
	return result, nil
}
