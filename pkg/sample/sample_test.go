package sample

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	t.Run("Duplicates are removed and words sorted", func(t *testing.T) {
		//** Act
		sample, err := New([]string{"b", "a", "b"}, []string{"", "aa", ""})

		//** Assert
		assert.Nil(t, err)
		assert.Equal(t, []string{"a", "b"}, sample.Positive)
		assert.Equal(t, []string{"", "aa"}, sample.Negative)
		assert.Equal(t, 4, sample.Len())
	})

	t.Run("Overlapping sets are rejected", func(t *testing.T) {
		//** Act
		_, err := New([]string{"a", "ab"}, []string{"ab", "b"})

		//** Assert
		var inconsistent InconsistentExamplesError
		assert.ErrorAs(t, err, &inconsistent)
		assert.Equal(t, []string{"ab"}, inconsistent.Words)
	})

	t.Run("Invalid UTF-8 is rejected", func(t *testing.T) {
		for _, negative := range [][]string{{""}, {"\uFFFD"}} {
			//** Act
			_, err := New([]string{"\xff"}, negative)

			//** Assert
			var invalid InvalidWordError
			assert.ErrorAs(t, err, &invalid)
			assert.Equal(t, []string{"\xff"}, invalid.Words)
		}
	})
}

func TestSetUtilitiesIgnoreOrder(t *testing.T) {
	g := NewWithT(t)

	//** Arrange
	rng := rand.New(rand.NewPCG(3, 4))
	sample := Generate(30, 0, 5, 3, 0.5, rng)
	sp, sm := sample.Positive, sample.Negative
	alphabet, prefixes, s := ComputeAlphabet(sp, sm), ComputePrefixes(sp, sm), ComputeS(sp, sm)

	for range 10 {
		shuffledSp, shuffledSm := append([]string{}, sp...), append([]string{}, sm...)
		rng.Shuffle(len(shuffledSp), func(i, j int) { shuffledSp[i], shuffledSp[j] = shuffledSp[j], shuffledSp[i] })
		rng.Shuffle(len(shuffledSm), func(i, j int) { shuffledSm[i], shuffledSm[j] = shuffledSm[j], shuffledSm[i] })

		//** Act & Assert
		g.Expect(ComputeAlphabet(shuffledSp, shuffledSm)).To(Equal(alphabet))
		g.Expect(ComputePrefixes(shuffledSp, shuffledSm)).To(Equal(prefixes))
		g.Expect(ComputeS(shuffledSp, shuffledSm)).To(Equal(s))

		g.Expect(ComputeAlphabet(shuffledSm, shuffledSp)).To(Equal(alphabet))
		g.Expect(ComputePrefixes(shuffledSm, shuffledSp)).To(Equal(prefixes))
		g.Expect(ComputeS(shuffledSm, shuffledSp)).To(Equal(s))
	}

	// Applying the utilities to their own output changes nothing
	g.Expect(ComputeS(s, nil)).To(Equal(s))
	g.Expect(ComputePrefixes(prefixes, nil)).To(Equal(prefixes))
	g.Expect(ComputeAlphabet([]string{string(alphabet)}, nil)).To(Equal(alphabet))
}

func TestComputePrefixes(t *testing.T) {
	g := NewWithT(t)

	//** Act
	prefixes := ComputePrefixes([]string{"ab", "b"}, []string{"aab"})

	//** Assert
	g.Expect(prefixes).To(Equal([]string{"", "a", "b", "aa", "ab", "aab"}))
}

func TestComputePrefixesMultibyte(t *testing.T) {
	//** Act
	prefixes := ComputePrefixes([]string{"αβ"}, nil)

	//** Assert
	assert.Equal(t, []string{"", "α", "αβ"}, prefixes)
}

func TestComputePrefixesEmptySample(t *testing.T) {
	assert.Equal(t, []string{""}, ComputePrefixes(nil, nil))
}

func TestComputePrefixesAreClosed(t *testing.T) {
	g := NewWithT(t)

	//** Arrange
	sample := Generate(40, 0, 6, 3, 0.5, rand.New(rand.NewPCG(1, 2)))

	//** Act
	prefixes := ComputePrefixes(sample.Positive, sample.Negative)

	//** Assert
	position := make(map[string]int)
	for i, prefix := range prefixes {
		position[prefix] = i
	}
	for _, prefix := range prefixes {
		if prefix == "" {
			continue
		}
		symbols := []rune(prefix)
		parent, ok := position[string(symbols[:len(symbols)-1])]
		g.Expect(ok).To(BeTrue())
		g.Expect(parent).To(BeNumerically("<", position[prefix]))
	}
	for _, word := range sample.Words() {
		g.Expect(position).To(HaveKey(word))
	}
}

func TestComputeAlphabet(t *testing.T) {
	g := NewWithT(t)

	//** Act
	alphabet := ComputeAlphabet([]string{"ba", ""}, []string{"c", "ab"})

	//** Assert
	g.Expect(alphabet).To(Equal([]rune{'a', 'b', 'c'}))
	g.Expect(ComputeAlphabet(nil, []string{""})).To(BeEmpty())
}

func TestComputeS(t *testing.T) {
	assert.Equal(t, []string{"", "a", "b"}, ComputeS([]string{"b", ""}, []string{"a", "b"}))
}

func TestShortlex(t *testing.T) {
	assert.Negative(t, Shortlex("b", "aa"))
	assert.Negative(t, Shortlex("a", "b"))
	assert.Positive(t, Shortlex("ab", "aa"))
	assert.Zero(t, Shortlex("ab", "ab"))
}

func TestReadFromFile(t *testing.T) {
	//** Arrange
	file := filepath.Join(t.TempDir(), "sample.txt")
	content := "a\n\nab\n=====\nb\nba\n"
	if err := os.WriteFile(file, []byte(content), 0666); err != nil {
		t.Fatalf("cannot write sample: %v", err)
	}

	//** Act
	sample, err := ReadFromFile(file)

	//** Assert
	assert.Nil(t, err)
	assert.Equal(t, []string{"", "a", "ab"}, sample.Positive)
	assert.Equal(t, []string{"b", "ba"}, sample.Negative)
}

func TestReadFromMissingFile(t *testing.T) {
	_, err := ReadFromFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestWriteToFile(t *testing.T) {
	//** Arrange
	file := filepath.Join(t.TempDir(), "sample.txt")
	sample, _ := New([]string{"", "ab"}, []string{"b"})

	//** Act
	err := WriteToFile(file, sample)
	read, readErr := Load(file)

	//** Assert
	assert.Nil(t, err)
	assert.Nil(t, readErr)
	assert.Equal(t, sample, read)
}

func TestFromJson(t *testing.T) {
	t.Run("Valid sample", func(t *testing.T) {
		//** Arrange
		file := filepath.Join(t.TempDir(), "sample.json")
		content := `{"positive": ["a", "aa"], "negative": ["", "b"]}`
		if err := os.WriteFile(file, []byte(content), 0666); err != nil {
			t.Fatalf("cannot write sample: %v", err)
		}

		//** Act
		sample, err := Load(file)

		//** Assert
		assert.Nil(t, err)
		assert.Equal(t, []string{"a", "aa"}, sample.Positive)
		assert.Equal(t, []string{"", "b"}, sample.Negative)
	})

	t.Run("Inconsistent sample", func(t *testing.T) {
		//** Arrange
		file := filepath.Join(t.TempDir(), "sample.json")
		content := `{"positive": ["a"], "negative": ["a"]}`
		if err := os.WriteFile(file, []byte(content), 0666); err != nil {
			t.Fatalf("cannot write sample: %v", err)
		}

		//** Act
		_, err := FromJson(file)

		//** Assert
		assert.ErrorAs(t, err, &InconsistentExamplesError{})
	})
}

func TestGenerate(t *testing.T) {
	t.Run("Words are distinct and within bounds", func(t *testing.T) {
		g := NewWithT(t)

		//** Act
		sample := Generate(30, 2, 5, 2, 0.5, rand.New(rand.NewPCG(7, 7)))

		//** Assert
		g.Expect(sample.Len()).To(Equal(30))
		g.Expect(sample.Validate()).To(Succeed())
		for _, word := range sample.Words() {
			g.Expect(len(word)).To(BeNumerically(">=", 2))
			g.Expect(len(word)).To(BeNumerically("<=", 5))
			g.Expect(word).To(MatchRegexp("^[ab]*$"))
		}
	})

	t.Run("Requested words exceeding available words are capped", func(t *testing.T) {
		g := NewWithT(t)

		//** Act
		sample := Generate(100, 0, 2, 2, 0.3, rand.New(rand.NewPCG(3, 4)))

		//** Assert
		g.Expect(sample.Words()).To(ConsistOf("", "a", "b", "aa", "ab", "ba", "bb"))
	})

	t.Run("Positive ratio extremes", func(t *testing.T) {
		g := NewWithT(t)

		//** Act
		positive := Generate(10, 1, 4, 3, 1, rand.New(rand.NewPCG(5, 6)))
		negative := Generate(10, 1, 4, 3, 0, rand.New(rand.NewPCG(5, 6)))

		//** Assert
		g.Expect(positive.Positive).To(HaveLen(10))
		g.Expect(positive.Negative).To(BeEmpty())
		g.Expect(negative.Negative).To(HaveLen(10))
		g.Expect(negative.Positive).To(BeEmpty())
	})
}
