package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestList_AddOrdinals(t *testing.T) {
	l := NewList[string](Policy{})
	assert.Equal(t, Accepted, l.Add("b", 0))
	assert.Equal(t, Accepted, l.Add("a", 0))
	assert.Equal(t, Accepted, l.Add("d", 99))
	assert.Equal(t, Accepted, l.Add("c", 2))
	assert.Equal(t, []string{"a", "b", "c", "d"}, l.All())
}

func TestList_Policy(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		seed   []string
		offer  string
		want   Outcome
	}{
		{name: "duplicate rejected", seed: []string{"a"}, offer: "a", want: Duplicate},
		{name: "duplicate allowed", policy: Policy{AllowDuplicates: true}, seed: []string{"a"}, offer: "a", want: Accepted},
		{name: "limit reached", policy: Policy{Limit: 2}, seed: []string{"a", "b"}, offer: "c", want: LimitReached},
		{name: "limit wins over duplicate", policy: Policy{Limit: 1}, seed: []string{"a"}, offer: "a", want: LimitReached},
		{name: "zero limit is unlimited", seed: []string{"a", "b", "c"}, offer: "d", want: Accepted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewList[string](tt.policy)
			for _, s := range tt.seed {
				l.Insert(s, -1)
			}
			assert.Equal(t, tt.want, l.Check(tt.offer))
			assert.Equal(t, tt.want, l.Add(tt.offer, -1))
			if tt.want == Accepted {
				assert.Equal(t, len(tt.seed)+1, l.Len())
			} else {
				assert.Equal(t, len(tt.seed), l.Len())
			}
		})
	}
}

func TestList_RemovePrefersOrdinal(t *testing.T) {
	l := NewList[string](Policy{AllowDuplicates: true})
	for _, s := range []string{"a", "b", "a", "c"} {
		l.Insert(s, -1)
	}
	assert.True(t, l.Remove("a", 2))
	assert.Equal(t, []string{"a", "b", "c"}, l.All())

	assert.True(t, l.Remove("c", 0))
	assert.Equal(t, []string{"a", "b"}, l.All())

	assert.False(t, l.Remove("z", 0))
	l.Reset()
	assert.Zero(t, l.Len())
	assert.False(t, l.Full())
}
