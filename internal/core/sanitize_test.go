package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "  oi  ", want: "oi"},
		{name: "element", in: "<b>Maria</b>", want: "Maria"},
		{name: "script element", in: "hi <script>alert(1)</script>", want: "hi"},
		{name: "encoded script", in: "hi &lt;script&gt;alert(1)&lt;/script&gt;", want: "hi"},
		{name: "encoded element keeps text", in: "&lt;b&gt;Bob&lt;/b&gt;", want: "Bob"},
		{name: "double encoded element", in: "&amp;lt;b&amp;gt;Bob&amp;lt;/b&amp;gt;", want: "Bob"},
		{name: "encoded img", in: "&lt;img src=x onerror=alert(1)&gt;", want: ""},
		{name: "ampersand", in: "oi & tchau", want: "oi & tchau"},
		{name: "comparison", in: "a < b", want: "a < b"},
		{name: "encoded comparison", in: "5 &gt; 3", want: "5 > 3"},
		{name: "apostrophe", in: "it's", want: "it's"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.in)
			require.Equal(t, tt.want, got)
			require.NotContains(t, got, "<script")
			require.NotContains(t, got, "<img")
		})
	}
}

func TestChainOrder(t *testing.T) {
	bang := func(s string) string { return s + "!" }
	twice := func(s string) string { return s + s }

	require.Equal(t, "ab!ab!", Chain(bang, twice)("ab"))
	require.Equal(t, "abab!", Chain(twice, bang)("ab"))
}
