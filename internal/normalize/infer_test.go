package normalize

import (
	"testing"

	"github.com/jobsift/jobsift/internal/model"
)

func TestRemoteTypeOf(t *testing.T) {
	tests := []struct {
		name                        string
		title, description, location string
		want                        model.RemoteType
	}{
		{"remote keyword in location", "Engineer", "", "Remote, US", model.RemoteTypeRemote},
		{"wfh keyword", "Engineer", "WFH friendly team", "", model.RemoteTypeRemote},
		{"hybrid wins over remote", "Engineer", "Hybrid: 2 days remote", "", model.RemoteTypeHybrid},
		{"onsite keyword", "Engineer", "This role is on-site in Austin", "", model.RemoteTypeOnsite},
		{"in-office keyword", "Engineer", "in-office collaboration", "", model.RemoteTypeOnsite},
		{"no signal", "Engineer", "Build great software", "Austin, TX", model.RemoteTypeUnknown},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := RemoteTypeOf(tc.title, tc.description, tc.location)
			if got != tc.want {
				t.Errorf("RemoteTypeOf = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSeniorityOf(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Senior Backend Engineer", "senior"},
		{"Staff Engineer, Infrastructure", "staff"},
		{"Principal Architect", "principal"},
		{"Junior Developer", "junior"},
		{"Engineering Intern", "junior"},
		{"Software Engineer", ""},
	}
	for _, tc := range tests {
		if got := SeniorityOf(tc.title); got != tc.want {
			t.Errorf("SeniorityOf(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestEmploymentTypeOf(t *testing.T) {
	tests := []struct {
		texts []string
		want  string
	}{
		{[]string{"Engineer", "full_time"}, "full_time"},
		{[]string{"Engineer", "Full-Time"}, "full_time"},
		{[]string{"Freelance Designer"}, "contract"},
		{[]string{"Engineer", "part time"}, "part_time"},
		{[]string{"Engineer"}, ""},
	}
	for _, tc := range tests {
		if got := EmploymentTypeOf(tc.texts...); got != tc.want {
			t.Errorf("EmploymentTypeOf(%v) = %q, want %q", tc.texts, got, tc.want)
		}
	}
}

func TestSalary(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantMin, wantMax float64
		wantNil       bool
	}{
		{"dollar range with commas", "$80,000 - $120,000 per year", 80000, 120000, false},
		{"k suffix range", "80k-120k", 80000, 120000, false},
		{"euro range", "€60,000 to €90,000", 60000, 90000, false},
		{"no salary", "competitive compensation", 0, 0, true},
		{"empty", "", 0, 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			min, max := Salary(tc.input)
			if tc.wantNil {
				if min != nil || max != nil {
					t.Fatalf("expected nils, got %v %v", min, max)
				}
				return
			}
			if min == nil || max == nil {
				t.Fatalf("expected range, got nils")
			}
			if *min != tc.wantMin || *max != tc.wantMax {
				t.Errorf("Salary(%q) = (%v, %v), want (%v, %v)", tc.input, *min, *max, tc.wantMin, tc.wantMax)
			}
		})
	}
}
