package parsing

import (
	"regexp"
	"strings"
	"unicode"
)

// Redaction placeholders inserted in place of personal data before the
// résumé text leaves the process.
const (
	redactedEmail   = "[REDACTED_EMAIL]"
	redactedPhone   = "[REDACTED_PHONE]"
	redactedName    = "[REDACTED_NAME]"
	redactedPronoun = "[REDACTED_PRONOUN]"
)

var (
	emailRe   = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)
	phoneRe   = regexp.MustCompile(`(\+?\d{1,3}[\s-]?)?(\(?\d{2,4}\)?[\s-]?)?\d{3,4}[\s-]?\d{3,4}`)
	pronounRe = regexp.MustCompile(`(?i)\b(he|she|his|her|him|hers)\b`)
)

// Words that indicate a résumé header line is a title or section heading
// rather than the candidate's name.
var headerStopWords = map[string]bool{
	"resume":     true,
	"curriculum": true,
	"vitae":      true,
	"engineer":   true,
	"developer":  true,
	"scientist":  true,
	"architect":  true,
	"analyst":    true,
	"consultant": true,
	"manager":    true,
	"designer":   true,
	"software":   true,
	"senior":     true,
	"junior":     true,
	"staff":      true,
	"principal":  true,
	"lead":       true,
	"intern":     true,
	"data":       true,
	"profile":    true,
	"summary":    true,
}

// Anonymize strips direct identifiers from résumé text: email addresses,
// phone numbers, the candidate's name, and gendered pronouns. Replacement
// order matters - emails first so the phone pass never consumes digits
// inside an address, pronouns last so placeholders are not re-scanned.
func Anonymize(text string) string {
	text = emailRe.ReplaceAllString(text, redactedEmail)
	text = phoneRe.ReplaceAllStringFunc(text, redactPhone)
	if name := headerName(text); name != "" {
		text = strings.ReplaceAll(text, name, redactedName)
	}
	text = pronounRe.ReplaceAllString(text, redactedPronoun)
	return text
}

// redactPhone decides whether a phone-shaped match is actually a phone
// number. Year ranges like "2019-2023" and plain figures match the loose
// pattern too, so a match is only redacted when it carries enough digits
// to dial: nine or more, or seven with an explicit country code or area
// prefix marker.
func redactPhone(match string) string {
	digits := 0
	for _, r := range match {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	marked := strings.ContainsAny(match, "+(")
	if digits >= 9 || (digits >= 7 && marked) {
		return redactedPhone
	}
	return match
}

// headerName scans the first non-empty line for something shaped like a
// personal name: two to four capitalized words, letters only apart from
// initials like "Q.". Returns "" when the line looks like a title or a
// heading instead.
func headerName(text string) string {
	line := ""
	for _, candidate := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			line = trimmed
			break
		}
	}
	if line == "" || len(line) > 60 {
		return ""
	}

	words := strings.Fields(line)
	if len(words) < 2 || len(words) > 4 {
		return ""
	}
	for _, word := range words {
		if !nameWord(word) {
			return ""
		}
		if headerStopWords[strings.ToLower(strings.TrimSuffix(word, "."))] {
			return ""
		}
	}
	return line
}

// nameWord reports whether word could be part of a personal name: an
// uppercase first letter followed by letters, with an optional trailing
// period for initials and internal hyphens or apostrophes for compound
// surnames.
func nameWord(word string) bool {
	word = strings.TrimSuffix(word, ".")
	if word == "" {
		return false
	}
	for i, r := range word {
		if i == 0 {
			if !unicode.IsUpper(r) {
				return false
			}
			continue
		}
		if !unicode.IsLetter(r) && r != '-' && r != '\'' {
			return false
		}
	}
	return true
}
