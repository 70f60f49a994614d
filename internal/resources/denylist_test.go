package resources

import "testing"

func TestContaminated_OperatingSystems(t *testing.T) {
	cases := []struct {
		name    string
		title   string
		subject string
		want    bool
	}{
		{"on-topic", "Operating System Concepts", "Operating Systems", false},
		{"data structures in title", "Data Structures Using C", "Operating Systems", true},
		{"database in title", "Database Management Systems", "", true},
		{"microprocessor in subject", "Unit 3 Notes", "Microprocessor Lab", true},
		{"chemistry in title", "Engineering Chemistry", "", true},
		{"case insensitive", "DATA STRUCTURES and algorithms", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Contaminated("Operating Systems", tc.title, tc.subject)
			if got != tc.want {
				t.Fatalf("Contaminated(%q, %q): got=%v want=%v", tc.title, tc.subject, got, tc.want)
			}
		})
	}
}

func TestContaminated_ConceptOverlapDoesNotRescue(t *testing.T) {
	// A record whose title names another subject is contaminated even if
	// it would match query concepts.
	if !Contaminated("Operating Systems", "Scheduling in Database Systems", "") {
		t.Fatalf("expected contamination despite concept overlap")
	}
}

func TestContaminated_UnknownSubjectPassesEverything(t *testing.T) {
	if Contaminated("Quantum Computing", "Database Management", "Databases") {
		t.Fatalf("unknown subject must not filter")
	}
}
