package extract

import "testing"

func TestYears(t *testing.T) {
	t.Parallel()

	intPtr := func(v int) *int { return &v }

	tests := []struct {
		name   string
		input  string
		expect *int
	}{
		{name: "maximum wins", input: "5+ years experience, 3 years prior", expect: intPtr(5)},
		{name: "no match", input: "no relevant history", expect: nil},
		{name: "singular", input: "1 year in support", expect: intPtr(1)},
		{name: "no space", input: "over 12years of coding", expect: intPtr(12)},
		{name: "case insensitive", input: "8 YEARS OF JAVA", expect: intPtr(8)},
		{name: "zero is allowed", input: "0 years of management", expect: intPtr(0)},
		{name: "three digits are ignored", input: "company with 150 years of history", expect: nil},
		{name: "calendar years are ignored", input: "2019 years ago; 4 years total", expect: intPtr(4)},
		{name: "must be a whole word", input: "10 yearsold and 2 yearly reviews", expect: nil},
		{name: "empty", input: "", expect: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Years(tt.input)
			switch {
			case tt.expect == nil && got != nil:
				t.Fatalf("expected nil, got %d", *got)
			case tt.expect != nil && got == nil:
				t.Fatalf("expected %d, got nil", *tt.expect)
			case tt.expect != nil && *got != *tt.expect:
				t.Fatalf("expected %d, got %d", *tt.expect, *got)
			}
		})
	}
}
