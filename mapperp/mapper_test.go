package mapperp

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/greghart/dbentry/entryp"
)

type pet struct {
	ID   int64
	Name string
}

type person struct {
	ID   int64
	Name string
	Pets []pet
}

// row is an entry of people left joined with their pets.
func row(personID int64, name string, petID any, petName any) *entryp.Entry {
	return entryp.MustNew("people",
		entryp.NewProperty("id", personID, entryp.TypeBigInt),
		entryp.Prop("name", name),
		entryp.NewProperty("pet_id", petID, entryp.TypeBigInt),
		entryp.Prop("pet_name", petName),
	)
}

func personData(e *entryp.Entry) (*person, bool) {
	id, ok := e.Value("id").(int64)
	if !ok {
		return nil, false
	}
	name, _ := e.Value("name").(string)
	return &person{ID: id, Name: name}, true
}

func petData(e *entryp.Entry) (*pet, bool) {
	id, ok := e.Value("pet_id").(int64)
	if !ok {
		return nil, false
	}
	name, _ := e.Value("pet_name").(string)
	return &pet{ID: id, Name: name}, true
}

func TestMapper_One(t *testing.T) {
	tests := map[string]struct {
		rows     []*entryp.Entry
		expected person
	}{
		"single person -> person": {
			rows:     []*entryp.Entry{row(1, "Alice", nil, nil)},
			expected: person{ID: 1, Name: "Alice"},
		},
		"two people -> first person": {
			rows: []*entryp.Entry{
				row(1, "Alice", nil, nil),
				row(2, "Bob", nil, nil),
			},
			expected: person{ID: 1, Name: "Alice"},
		},
		"person with pets -> person and pets": {
			rows: []*entryp.Entry{
				row(1, "Alice", int64(10), "Rex"),
				row(1, "Alice", int64(11), "Tom"),
			},
			expected: person{ID: 1, Name: "Alice", Pets: []pet{{10, "Rex"}, {11, "Tom"}}},
		},
		"no rows -> zero person": {
			rows:     nil,
			expected: person{},
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			rowMapper := One(
				personData,
				InnerSlice(func(p *person) *[]pet { return &p.Pets }, func(p *pet) int64 { return p.ID }, petData),
			)
			result := Run(test.rows, rowMapper)
			if !cmp.Equal(result, test.expected) {
				t.Errorf("mapped person unexpected:\n%v", cmp.Diff(test.expected, result))
			}
		})
	}
}

func TestMapper_Slice(t *testing.T) {
	tests := map[string]struct {
		rows     []*entryp.Entry
		expected []person
	}{
		"single person -> single person": {
			rows:     []*entryp.Entry{row(1, "Alice", nil, nil)},
			expected: []person{{ID: 1, Name: "Alice"}},
		},
		"zero id is still a person": {
			rows: []*entryp.Entry{
				row(0, "Zero", nil, nil),
				row(1, "Alice", nil, nil),
			},
			expected: []person{{ID: 0, Name: "Zero"}, {ID: 1, Name: "Alice"}},
		},
		"people with pets -> nested people": {
			rows: []*entryp.Entry{
				row(1, "Alice", int64(10), "Rex"),
				row(1, "Alice", int64(11), "Tom"),
				row(2, "Bob", nil, nil),
				row(3, "Carol", int64(12), "Kit"),
			},
			expected: []person{
				{ID: 1, Name: "Alice", Pets: []pet{{10, "Rex"}, {11, "Tom"}}},
				{ID: 2, Name: "Bob"},
				{ID: 3, Name: "Carol", Pets: []pet{{12, "Kit"}}},
			},
		},
		"pets shared between people -> pet under each": {
			rows: []*entryp.Entry{
				row(1, "Alice", int64(10), "Rex"),
				row(2, "Bob", int64(10), "Rex"),
			},
			expected: []person{
				{ID: 1, Name: "Alice", Pets: []pet{{10, "Rex"}}},
				{ID: 2, Name: "Bob", Pets: []pet{{10, "Rex"}}},
			},
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			rowMapper := Slice(
				func(p *person) int64 { return p.ID },
				personData,
				Last(
					InnerSlice(func(p *person) *[]pet { return &p.Pets }, func(p *pet) int64 { return p.ID }, petData),
				),
			)
			result := Run(test.rows, rowMapper)
			if !cmp.Equal(result, test.expected) {
				t.Errorf("mapped people unexpected:\n%v", cmp.Diff(test.expected, result))
			}
		})
	}
}

func TestMapper_LastOnEmpty(t *testing.T) {
	called := false
	m := Last(func(out *person, row *entryp.Entry, i int) { called = true })
	var people []person
	m(&people, row(1, "Alice", nil, nil), 0)
	if called {
		t.Errorf("expected Last to skip an empty slice")
	}
}
