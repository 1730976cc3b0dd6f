package extract

import "regexp"

const (
	urlPlaceholder   = "[URL removed]"
	emailPlaceholder = "[email removed]"
	firmPlaceholder  = "[law firm removed]"
)

var (
	urlRe   = regexp.MustCompile(`https?://\S+|www\.\S+`)
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	firmSuffix = `(?:(?:LLP|LLC|PC|Inc|Corp)\b\.?|P\.C\.)`
	firmRes    = []*regexp.Regexp{
		regexp.MustCompile(`\b[A-Z][a-z]+ & [A-Z][a-z]+ ` + firmSuffix),
		regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z][a-z]+ ` + firmSuffix),
		regexp.MustCompile(`\b[A-Z][a-z]+ ` + firmSuffix),
	}
)

// Scrub replaces links, e-mail addresses and law-firm style names with
// placeholders so they are never sent to the model or echoed back.
func Scrub(text string) string {
	text = urlRe.ReplaceAllString(text, urlPlaceholder)
	text = emailRe.ReplaceAllString(text, emailPlaceholder)
	for _, re := range firmRes {
		text = re.ReplaceAllString(text, firmPlaceholder)
	}
	return text
}
