package services

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"humanwrk/job-recommender/internal/models"
)

type SkillNormalizer interface {
	// Normalize turns a raw skills value of unknown shape into a skill set.
	// It never fails: unparseable input is logged and yields an empty set.
	Normalize(raw any) models.SkillSet
	// ExtractFromDescription returns dictionary skills mentioned in free text.
	ExtractFromDescription(description string) models.SkillSet
	DictionarySize() int
}

type skillNormalizer struct {
	dictionary map[string]struct{}
	log        *zap.Logger
}

// descriptionWordPattern keeps the characters that appear in skill names
// such as c++, c# or node.js.
var descriptionWordPattern = regexp.MustCompile(`[a-z0-9+#.]+`)

func NewSkillNormalizer(dictionary []string, log *zap.Logger) SkillNormalizer {
	dict := make(map[string]struct{}, len(dictionary))
	for _, skill := range dictionary {
		if skill = cleanToken(skill); skill != "" {
			dict[skill] = struct{}{}
		}
	}

	return &skillNormalizer{dictionary: dict, log: log}
}

// LoadSkillDictionary reads one skill per line, lowercased.
func LoadSkillDictionary(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open skill dictionary: %w", err)
	}
	defer f.Close()

	var skills []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if skill := strings.ToLower(strings.TrimSpace(scanner.Text())); skill != "" {
			skills = append(skills, skill)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read skill dictionary: %w", err)
	}

	return skills, nil
}

func (n *skillNormalizer) DictionarySize() int {
	return len(n.dictionary)
}

// Normalize implements SkillNormalizer.
func (n *skillNormalizer) Normalize(raw any) models.SkillSet {
	tokens, ok := parseSkillTokens(raw)
	if !ok {
		n.log.Warn("could not parse skills",
			zap.String("type", fmt.Sprintf("%T", raw)),
			zap.String("value", fmt.Sprintf("%.120v", raw)),
		)
		return models.SkillSet{}
	}

	return models.NewSkillSet(tokens...)
}

// ExtractFromDescription implements SkillNormalizer. Every word and every
// pair of whitespace-separated words is looked up in the dictionary.
func (n *skillNormalizer) ExtractFromDescription(description string) models.SkillSet {
	if description == "" || len(n.dictionary) == 0 {
		return models.SkillSet{}
	}

	text := strings.ToLower(description)

	var found []string
	lookup := func(token string) {
		if _, ok := n.dictionary[token]; ok {
			found = append(found, token)
		}
	}

	prev, prevEnd := "", -1
	for _, loc := range descriptionWordPattern.FindAllStringIndex(text, -1) {
		word := strings.Trim(text[loc[0]:loc[1]], ".")
		if word == "" {
			prev, prevEnd = "", -1
			continue
		}

		lookup(word)
		if prev != "" && prevEnd < loc[0] && strings.TrimSpace(text[prevEnd:loc[0]]) == "" {
			lookup(prev + " " + word)
		}

		// A trailing dot ends the sentence, so no pair crosses it.
		if strings.HasSuffix(text[loc[0]:loc[1]], ".") {
			prev, prevEnd = "", -1
			continue
		}
		prev, prevEnd = word, loc[1]
	}

	return models.NewSkillSet(found...)
}

func parseSkillTokens(raw any) ([]string, bool) {
	switch v := raw.(type) {
	case nil:
		return nil, true
	case []string:
		return cleanTokens(v), true
	case []any:
		return tokensFromList(v), true
	case string:
		return parseSkillString(v), true
	case []byte:
		return parseSkillString(string(v)), true
	case json.RawMessage:
		return parseSkillString(string(v)), true
	case fmt.Stringer:
		return parseSkillString(v.String()), true
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]any, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items = append(items, rv.Index(i).Interface())
		}
		return tokensFromList(items), true
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return parseSkillString(fmt.Sprint(raw)), true
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, true
		}
		return parseSkillTokens(rv.Elem().Interface())
	}

	return nil, false
}

func parseSkillString(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		var items []any
		if err := json.Unmarshal([]byte(s), &items); err == nil {
			return tokensFromList(items)
		}
	}

	// Postgres text[] columns arrive as {go,"machine learning"}.
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		s = s[1 : len(s)-1]
	}

	return cleanTokens(strings.Split(s, ","))
}

func tokensFromList(items []any) []string {
	tokens := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case nil:
			continue
		case string:
			tokens = append(tokens, v)
		case float64, float32, int, int64, int32, bool:
			tokens = append(tokens, fmt.Sprint(v))
		}
	}
	return cleanTokens(tokens)
}

func cleanTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t = cleanToken(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func cleanToken(t string) string {
	t = strings.TrimSpace(t)
	t = strings.Trim(t, `[]{}"'`)
	return strings.ToLower(strings.TrimSpace(t))
}
