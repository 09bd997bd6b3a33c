package internal

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/reiver/go-porterstemmer"
	unorm "golang.org/x/text/unicode/norm"
)

type CleanOptions struct {
	RemoveStopwords bool `yaml:"remove_stopwords" mapstructure:"remove_stopwords"`
	Stem            bool `yaml:"stem" mapstructure:"stem"`
}

var nonLetters = regexp.MustCompile(`[^a-zA-Z]`)

// English stop words, as shipped with the NLTK corpus.
var stopWords = toSet([]string{
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you", "your",
	"yours", "yourself", "yourselves", "he", "him", "his", "himself", "she",
	"her", "hers", "herself", "it", "its", "itself", "they", "them", "their",
	"theirs", "themselves", "what", "which", "who", "whom", "this", "that",
	"these", "those", "am", "is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "having", "do", "does", "did", "doing", "a", "an",
	"the", "and", "but", "if", "or", "because", "as", "until", "while", "of",
	"at", "by", "for", "with", "about", "against", "between", "into",
	"through", "during", "before", "after", "above", "below", "to", "from",
	"up", "down", "in", "out", "on", "off", "over", "under", "again",
	"further", "then", "once", "here", "there", "when", "where", "why", "how",
	"all", "any", "both", "each", "few", "more", "most", "other", "some",
	"such", "no", "nor", "not", "only", "own", "same", "so", "than", "too",
	"very", "s", "t", "can", "will", "just", "don", "should", "now",
})

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func IsStopword(word string) bool {
	return stopWords[word]
}

// ReviewToWordlist turns a raw, possibly HTML formatted review into lower
// case word tokens.
func ReviewToWordlist(review string, opts CleanOptions) []string {
	text := stripHTML(unorm.NFC.String(review))
	text = nonLetters.ReplaceAllString(text, " ")
	words := strings.Fields(strings.ToLower(text))

	out := words[:0]
	for _, w := range words {
		if opts.RemoveStopwords && stopWords[w] {
			continue
		}
		if opts.Stem {
			w = stem(w)
		}
		out = append(out, w)
	}
	return out
}

// CleanReviews applies ReviewToWordlist to every review.
func CleanReviews(reviews []string, opts CleanOptions) [][]string {
	docs := make([][]string, len(reviews))
	for i, r := range reviews {
		docs[i] = ReviewToWordlist(r, opts)
	}
	return docs
}

func stripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return doc.Text()
}

func stem(word string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = word
		}
	}()
	return porterstemmer.StemString(word)
}
