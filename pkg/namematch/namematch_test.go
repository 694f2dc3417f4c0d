package namematch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_Tiers(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		target    string
		want      int
	}{
		{"exact", "customerName", "customerName", ScoreExact},
		{"case only", "CUSTOMERNAME", "customerName", ScoreCaseInsensitive},
		{"snake vs camel", "customer_name", "customerName", ScoreNormalized},
		{"namespace prefix", "ns1:customer-name", "customerName", ScoreNormalized},
		{"upper snake", "TARGET_SERVICE", "targetService", ScoreNormalized},
		{"plural", "orders", "order", ScoreSingular},
		{"es plural", "boxes", "box", ScoreSingular},
		{"plural variant", "Code", "codes", ScoreVariant},
		{"token variant", "address", "addressLine", ScoreVariant},
		{"token overlap", "customerId", "customerName", 38},
		{"token overlap with prefix", "order_date_time", "order_date", 58},
		{"unrelated", "abc", "xyz", 0},
		{"empty candidate", "", "name", 0},
		{"empty target", "name", "", 0},
		{"only punctuation", "__", "name", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.candidate, tt.target))
		})
	}
}

func TestScore_Reflexive(t *testing.T) {
	for _, name := range []string{"a", "id", "targetService", "ns:Body", "x-flow-id", "Telemóvel"} {
		assert.Equal(t, ScoreExact, Score(name, name), name)
	}
}

func TestScore_CrossConvention(t *testing.T) {
	assert.GreaterOrEqual(t, Score("targetService", "TARGET_SERVICE"), ScoreVariant)
	assert.GreaterOrEqual(t, Score("orders", "order"), ScoreSingular)
	assert.GreaterOrEqual(t, Score("order", "orders"), ScoreSingular)
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"":                 "",
		"id":               "id",
		"customerID":       "customer_id",
		"ns:targetService": "target_service",
		"a:b:lastName":     "last_name",
		"--Foo--Bar--":     "foo_bar",
		"X-Flow-ID":        "x_flow_id",
		"phone2Number":     "phone2_number",
	}
	for in, want := range tests {
		assert.Equal(t, want, Normalize(in), in)
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"target", "service", "id"}, Tokenize("targetService_ID"))
	assert.Empty(t, Tokenize("::"))
}

func TestSingularize(t *testing.T) {
	assert.Equal(t, "order", Singularize("orders"))
	assert.Equal(t, "box", Singularize("boxes"))
	assert.Equal(t, "cod", Singularize("codes"))
	assert.Equal(t, "e", Singularize("es"))
	assert.Equal(t, "s", Singularize("s"))
	assert.Equal(t, "item", Singularize("item"))
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "orders", Pluralize("order"))
	assert.Equal(t, "orders", Pluralize("orders"))
	assert.Equal(t, "categories", Pluralize("category"))
	assert.Equal(t, "ys", Pluralize("y"))
	assert.Equal(t, "", Pluralize(""))
}

func TestVariants(t *testing.T) {
	v := Variants("OrderLines")
	for _, want := range []string{"order_lines", "order_lin", "order", "lines"} {
		assert.Contains(t, v, want)
	}
	assert.Nil(t, Variants(""))
}

type named struct{ name string }

func nameOf(n named) string { return n.name }

func TestBest(t *testing.T) {
	items := []named{{"Header"}, {"orderList"}, {"ORDERLIST"}, {"Body"}}

	t.Run("picks highest score", func(t *testing.T) {
		got, score, ok := Best(items, nameOf, "body", DefaultMinScore)
		assert.True(t, ok)
		assert.Equal(t, "Body", got.name)
		assert.Equal(t, ScoreCaseInsensitive, score)
	})

	t.Run("ties keep first seen", func(t *testing.T) {
		got, _, ok := Best(items, nameOf, "OrderList", MinChildScore)
		assert.True(t, ok)
		assert.Equal(t, "orderList", got.name)
	})

	t.Run("below threshold", func(t *testing.T) {
		_, score, ok := Best(items, nameOf, "customerName", MinChildScore)
		assert.False(t, ok)
		assert.Less(t, score, MinChildScore)
	})

	t.Run("empty target", func(t *testing.T) {
		_, _, ok := Best(items, nameOf, "", 0)
		assert.False(t, ok)
	})
}
