package message

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/xavierca1/clientbook/internal/entity"
)

const defaultSubject = "Follow Up"

var (
	nonDigitRe = regexp.MustCompile(`\D`)
	subjectRe  = regexp.MustCompile(`^Subject: ([^\n]*)\n*`)
)

// NormalizePhone strips everything that is not a digit.
func NormalizePhone(phone string) string {
	return nonDigitRe.ReplaceAllString(phone, "")
}

// SplitSubject pulls a leading "Subject: ..." line out of an email body.
func SplitSubject(text string) (subject, body string) {
	m := subjectRe.FindStringSubmatch(text)
	if m == nil {
		return defaultSubject, text
	}
	subject = strings.TrimSpace(m[1])
	if subject == "" {
		subject = defaultSubject
	}
	return subject, text[len(m[0]):]
}

// Link builds the deep link that opens text on ch for c.
func Link(ch Channel, c entity.Client, text string) (string, error) {
	switch ch {
	case ChannelWhatsApp:
		phone := NormalizePhone(c.Mobile)
		if phone == "" {
			return "", fmt.Errorf("client %s has no mobile number", c.ID)
		}
		return fmt.Sprintf("https://wa.me/%s?text=%s", phone, encode(text)), nil
	case ChannelEmail:
		if c.Email == "" {
			return "", fmt.Errorf("client %s has no email", c.ID)
		}
		subject, body := SplitSubject(text)
		return fmt.Sprintf("mailto:%s?subject=%s&body=%s", c.Email, encode(subject), encode(body)), nil
	case ChannelSMS:
		if c.Mobile == "" {
			return "", fmt.Errorf("client %s has no mobile number", c.ID)
		}
		return fmt.Sprintf("sms:%s?body=%s", c.Mobile, encode(text)), nil
	case ChannelInstagram:
		// instagram has no prefill, the text is copied by the front end
		handle := strings.TrimPrefix(strings.TrimSpace(c.InstagramHandle), "@")
		if handle == "" {
			return "", fmt.Errorf("client %s has no instagram handle", c.ID)
		}
		return "https://instagram.com/" + url.PathEscape(handle), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownChannel, ch)
}

// encode matches JavaScript's encodeURIComponent closely enough for links:
// spaces become %20, not "+".
func encode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
