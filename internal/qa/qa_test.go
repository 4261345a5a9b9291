package qa

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(id, question, answer string, line int) *Entry {
	return &Entry{
		ID:       id,
		Question: question,
		Answer:   answer,
		Source:   Location{Source: "beans.md", Line: line},
	}
}

func sampleCollection() *Collection {
	return &Collection{
		Title: "Spring",
		Sections: []*Section{
			{Name: "IoC", Entries: []*Entry{
				entry("what-is-ioc", "What is IoC?", "Inversion of control.", 3),
				entry("container", "What is the container?", "The ApplicationContext.", 7),
			}},
			{Name: "DI", Entries: []*Entry{
				entry("constructor", "Constructor injection?", "Preferred.", 12),
			}},
		},
	}
}

func TestValidate_ValidCollectionReturnedUnchanged(t *testing.T) {
	c := sampleCollection()
	got, err := Validate(c)
	require.NoError(t, err)
	assert.Same(t, c, got)
}

func TestValidate_DuplicateIDNamesBothLocations(t *testing.T) {
	c := sampleCollection()
	c.Sections[1].Entries = append(c.Sections[1].Entries, entry("what-is-ioc", "Again?", "Yes.", 20))

	_, err := Validate(c)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateID)

	var dup *DuplicateIDError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "what-is-ioc", dup.ID)
	assert.Equal(t, "beans.md:3", dup.First.String())
	assert.Equal(t, "beans.md:20", dup.Second.String())
	assert.Contains(t, err.Error(), "beans.md:3")
	assert.Contains(t, err.Error(), "beans.md:20")
	assert.Equal(t, KindDuplicateID, KindOf(err))
}

func TestValidate_EmptyAnswer(t *testing.T) {
	c := sampleCollection()
	c.Sections[0].Entries[1].Answer = "  \n\t"

	_, err := Validate(c)
	var empty *EmptyFieldError
	require.True(t, errors.As(err, &empty))
	assert.Equal(t, "answer", empty.Field)
	assert.Equal(t, "container", empty.ID)
	assert.Equal(t, KindEmptyField, KindOf(err))
}

func TestValidate_EmptyQuestionReportedBeforeAnswer(t *testing.T) {
	c := sampleCollection()
	c.Sections[0].Entries[0].Question = ""
	c.Sections[0].Entries[0].Answer = ""

	_, err := Validate(c)
	var empty *EmptyFieldError
	require.True(t, errors.As(err, &empty))
	assert.Equal(t, "question", empty.Field)
}

func TestValidate_FailFastInDocumentOrder(t *testing.T) {
	c := sampleCollection()
	// A duplicate in the first section precedes a blank answer in the second.
	c.Sections[0].Entries[1].ID = "what-is-ioc"
	c.Sections[1].Entries[0].Answer = ""

	_, err := Validate(c)
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.False(t, errors.Is(err, ErrEmptyField))
}

func TestEntryValidator_RegistersNonblank(t *testing.T) {
	var v *validator.Validate
	require.NotPanics(t, func() { v = entryValidator() })
	assert.Error(t, v.Var(" \t\n", "nonblank"))
	assert.NoError(t, v.Var("x", "nonblank"))
}

func TestValidate_NilCollection(t *testing.T) {
	_, err := Validate(nil)
	assert.Error(t, err)
	assert.Equal(t, Kind(""), KindOf(err))
}

func TestCollection_Accessors(t *testing.T) {
	c := sampleCollection()
	assert.Equal(t, 3, c.Len())

	ids := make([]string, 0, c.Len())
	for _, e := range c.Entries() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"what-is-ioc", "container", "constructor"}, ids)

	e, ok := c.Lookup("constructor")
	require.True(t, ok)
	assert.Equal(t, "Preferred.", e.Answer)

	_, ok = c.Lookup("missing")
	assert.False(t, ok)
}

func TestLocation_String(t *testing.T) {
	assert.Equal(t, "a.md:4", Location{Source: "a.md", Line: 4}.String())
	assert.Equal(t, "a.html", Location{Source: "a.html"}.String())
}

func TestMalformed_WrapsSentinelAndCause(t *testing.T) {
	cause := errors.New("yaml: line 2: did not find expected key")
	err := Malformed("q.yaml", 2, "cannot decode document")
	err.Err = cause

	assert.ErrorIs(t, err, ErrMalformedDocument)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindMalformedDocument, KindOf(err))
	assert.True(t, strings.HasPrefix(err.Error(), "q.yaml:2: cannot decode document"))
}

func TestUnsupportedFormatError(t *testing.T) {
	err := &UnsupportedFormatError{Format: "pdf", Supported: []string{"plain", "html"}}
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Equal(t, `format "pdf" is not supported (want one of: plain, html)`, err.Error())
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"What is IoC?", "what-is-ioc"},
		{"  Bean Scope & Thread Safety  ", "bean-scope-thread-safety"},
		{"@Autowired vs @Inject", "autowired-vs-inject"},
		{"Qué es la inyección?", "que-es-la-inyeccion"},
		{"Что такое IoC", "что-такое-ioc"},
		{"---", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "input %q", tt.in)
	}
}

func TestSlugify_Truncates(t *testing.T) {
	got := Slugify(strings.Repeat("ab ", 40))
	assert.LessOrEqual(t, len([]rune(got)), 50)
	assert.False(t, strings.HasSuffix(got, "-"))
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" Scopes", "thread safety", "scopes"}, []string{"Core", "", "SCOPES"})
	assert.Equal(t, []string{"scopes", "thread-safety", "core"}, got)
	assert.Nil(t, NormalizeTags())
}
