package internal

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := map[string]string{"A": "1"}
	b := map[string]string{"B": "2"}

	var keys []string
	for key := range IterSeq2Concat(maps.All(a), maps.All(b)) {
		keys = append(keys, key)
	}
	assert.ElementsMatch([]string{"A", "B"}, keys)
}

func TestIterSeq2Concat_Stop(t *testing.T) {
	assert := assert.New(t)

	a := map[string]string{"A": "1", "B": "2", "C": "3"}

	count := 0
	for range IterSeq2Concat(maps.All(a), maps.All(a)) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(2, count)
}

func TestDefines(t *testing.T) {
	assert := assert.New(t)

	defs := Defines(
		maps.All(map[string]string{"A": "1", "B": "2"}),
		maps.All(map[string]string{"B": "3"}),
	)

	assert.Equal(map[string]string{"A": "1", "B": "3"}, defs)
}
