package variant

import "strings"

// Assembly identifies the reference genome build used for position bounds.
type Assembly string

const (
	GRCh37 Assembly = "GRCh37"
	GRCh38 Assembly = "GRCh38"
)

// ParseAssembly maps a user-supplied assembly name to an Assembly.
func ParseAssembly(s string) (Assembly, bool) {
	switch strings.ToUpper(s) {
	case "GRCH37", "HG19":
		return GRCh37, true
	case "GRCH38", "HG38":
		return GRCh38, true
	}
	return "", false
}

// chromAliases maps every accepted chromosome spelling to its canonical
// form. Unmapped tokens are an input error, never passed through.
var chromAliases = map[string]string{
	"X": "X", "Y": "Y",
	"MT": "MT", "M": "MT", "CHRM": "MT", "CHRMT": "MT",
}

func init() {
	for i := 1; i <= 22; i++ {
		name := itoa(i)
		chromAliases[name] = name
		chromAliases["CHR"+name] = name
	}
	chromAliases["CHRX"] = "X"
	chromAliases["CHRY"] = "Y"
}

func itoa(n int) string {
	if n < 10 {
		return string(rune('0' + n))
	}
	return string(rune('0'+n/10)) + string(rune('0'+n%10))
}

// CanonicalChrom maps a chromosome token to its canonical form
// (1..22, X, Y, MT). The second return value is false for unmapped tokens.
func CanonicalChrom(chrom string) (string, bool) {
	c, ok := chromAliases[strings.ToUpper(strings.TrimSpace(chrom))]
	return c, ok
}

// Per-chromosome sequence lengths, used as position upper bounds.
var chromLengths = map[Assembly]map[string]int64{
	GRCh37: {
		"1": 249250621, "2": 243199373, "3": 198022430, "4": 191154276,
		"5": 180915260, "6": 171115067, "7": 159138663, "8": 146364022,
		"9": 141213431, "10": 135534747, "11": 135006516, "12": 133851895,
		"13": 115169878, "14": 107349540, "15": 102531392, "16": 90354753,
		"17": 81195210, "18": 78077248, "19": 59128983, "20": 63025520,
		"21": 48129895, "22": 51304566, "X": 155270560, "Y": 59373566,
		"MT": 16569,
	},
	GRCh38: {
		"1": 248956422, "2": 242193529, "3": 198295559, "4": 190214555,
		"5": 181538259, "6": 170805979, "7": 159345973, "8": 145138636,
		"9": 138394717, "10": 133797422, "11": 135086622, "12": 133275309,
		"13": 114364328, "14": 107043718, "15": 101991189, "16": 90338345,
		"17": 83257441, "18": 80373285, "19": 58617616, "20": 64444167,
		"21": 46709983, "22": 50818468, "X": 156040895, "Y": 57227415,
		"MT": 16569,
	},
}

// ChromLength returns the sequence length of a canonical chromosome for
// the given assembly.
func ChromLength(asm Assembly, chrom string) (int64, bool) {
	lengths, ok := chromLengths[asm]
	if !ok {
		return 0, false
	}
	n, ok := lengths[chrom]
	return n, ok
}
