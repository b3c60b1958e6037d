package domain

import (
	"encoding/json/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-09-12")
	require.NoError(t, err)
	assert.Equal(t, "2024-09-12", d.String())

	_, err = ParseDate("12/09/2024")
	assert.Error(t, err)
}

func TestDateOf_TruncatesTime(t *testing.T) {
	instant := time.Date(2024, 9, 12, 23, 59, 59, 0, time.UTC)
	d := DateOf(instant)

	assert.Equal(t, "2024-09-12", d.String())
	assert.True(t, d.Equal(NewDate(2024, time.September, 12)))
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := NewDate(1965, time.August, 1)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"1965-08-01"`, string(data))

	var parsed Date
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.True(t, d.Equal(parsed))
}

func TestDate_UnmarshalRejectsNonDate(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"not-a-date"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`12345`), &d))
}

func TestNormalizeAuthorNames(t *testing.T) {
	got := NormalizeAuthorNames([]string{" Frank Herbert ", "Frank Herbert", "Brian Herbert"})
	assert.Equal(t, []string{"Frank Herbert", "Brian Herbert"}, got)

	assert.Nil(t, NormalizeAuthorNames(nil))
	assert.Empty(t, NormalizeAuthorNames([]string{}))
}
