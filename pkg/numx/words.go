package numx

import "strings"

var (
	smallWords = [...]string{
		"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
		"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
		"seventeen", "eighteen", "nineteen",
	}
	tensWords  = [...]string{"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety"}
	scaleWords = [...]string{"", "thousand", "million", "billion", "trillion", "quadrillion", "quintillion"}
)

// ToWords spells n in English: 1205 → "one thousand two hundred five".
func ToWords(n int64) string {
	if n == 0 {
		return smallWords[0]
	}
	var parts []string
	u := uint64(n)
	if n < 0 {
		parts = append(parts, "minus")
		u = uint64(-(n + 1)) + 1
	}

	var groups []string
	for scale := 0; u > 0; scale++ {
		if g := u % 1000; g > 0 {
			w := hundredsWords(int(g))
			if scaleWords[scale] != "" {
				w += " " + scaleWords[scale]
			}
			groups = append([]string{w}, groups...)
		}
		u /= 1000
	}
	return strings.Join(append(parts, groups...), " ")
}

func hundredsWords(n int) string {
	var w []string
	if n >= 100 {
		w = append(w, smallWords[n/100], "hundred")
		n %= 100
	}
	switch {
	case n >= 20:
		t := tensWords[n/10]
		if n%10 != 0 {
			t += "-" + smallWords[n%10]
		}
		w = append(w, t)
	case n > 0:
		w = append(w, smallWords[n])
	}
	return strings.Join(w, " ")
}
