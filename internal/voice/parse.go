// Package voice turns spoken cashier commands such as "two milk" or
// "add 3 coca cola" into a quantity and a catalog product.
package voice

import (
	"strconv"
	"strings"
)

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19, "twenty": 20,
}

var verbs = map[string]bool{
	"add":      true,
	"get":      true,
	"buy":      true,
	"purchase": true,
}

type Command struct {
	Quantity     int
	ProductQuery string
}

// Parse splits an utterance into a quantity and a product phrase. Only the
// first word is read as a quantity, as digits or a word from one to twenty;
// without one the quantity is 1 and the whole utterance is the phrase. One
// leading verb (add, get, buy, purchase) is then dropped from the phrase, so
// "add three milk" asks for one "three milk".
func Parse(utterance string) Command {
	words := strings.Fields(strings.ToLower(utterance))

	cmd := Command{Quantity: 1}

	if len(words) > 0 {
		if n, ok := quantity(words[0]); ok {
			cmd.Quantity = n
			words = words[1:]
		}
	}

	words = dropVerb(words)

	cmd.ProductQuery = strings.Join(words, " ")

	return cmd
}

func quantity(word string) (int, bool) {
	if n, ok := numberWords[word]; ok {
		return n, true
	}

	n, err := strconv.Atoi(word)
	if err != nil || n < 1 {
		return 0, false
	}

	return n, true
}

func dropVerb(words []string) []string {
	if len(words) > 1 && verbs[words[0]] {
		return words[1:]
	}

	return words
}
