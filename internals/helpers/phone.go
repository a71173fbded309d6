package helper

import (
	"regexp"
	"strings"
)

// Membership is limited to Saudi and Kuwaiti numbers. Accepted shapes:
//
//	+9665xxxxxxxx / 9665xxxxxxxx / 05xxxxxxxx  (Saudi mobile)
//	+965xxxxxxxx  / 965xxxxxxxx                (Kuwaiti, 8 local digits)
var (
	saudiPhoneRe   = regexp.MustCompile(`^(?:\+?9665|05)\d{8}$`)
	kuwaitiPhoneRe = regexp.MustCompile(`^\+?965[24569]\d{7}$`)
)

// NormalizePhone strips spaces/dashes and returns the E.164 form, or ok=false
// when the number is neither Saudi nor Kuwaiti.
func NormalizePhone(raw string) (string, bool) {
	p := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(raw))
	if p == "" {
		return "", false
	}

	switch {
	case saudiPhoneRe.MatchString(p):
		if strings.HasPrefix(p, "05") {
			p = "+966" + p[1:]
		} else if !strings.HasPrefix(p, "+") {
			p = "+" + p
		}
		return p, true
	case kuwaitiPhoneRe.MatchString(p):
		if !strings.HasPrefix(p, "+") {
			p = "+" + p
		}
		return p, true
	}
	return "", false
}
