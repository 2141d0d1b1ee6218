package roster

import (
	"testing"

	"github.com/Trihalo/XeroAPI/internal/model"
)

type fakeSource struct {
	recruiters []*model.Recruiter
	areas      []*model.Area
}

func (f *fakeSource) ListRecruiters() ([]*model.Recruiter, error) { return f.recruiters, nil }
func (f *fakeSource) ListAreas() ([]*model.Area, error)           { return f.areas, nil }

func TestRoster(t *testing.T) {
	src := &fakeSource{
		recruiters: []*model.Recruiter{
			{ID: "1", Name: "Suzie Large", Area: "Legal"},
			{ID: "2", Name: "Emily Wilson", Area: "Executive"},
		},
		areas: []*model.Area{
			{ID: "a", Name: "Legal", Headcount: 2.5},
			{ID: "b", Name: "Executive", Headcount: 0},
		},
	}

	r, err := Load(src)
	if err != nil {
		t.Fatal(err)
	}

	if area, ok := r.AreaOf("Suzie Large"); !ok || area != "Legal" {
		t.Fatalf("AreaOf: got %q %v", area, ok)
	}
	if _, ok := r.AreaOf("Nobody"); ok {
		t.Fatalf("unknown recruiter must not resolve")
	}
	if !r.Contains("Emily Wilson") || r.Contains("Nobody") {
		t.Fatalf("Contains wrong")
	}

	names := r.AreaNames()
	if len(names) != 2 || names[0] != "Legal" || names[1] != "Executive" {
		t.Fatalf("AreaNames order: %v", names)
	}

	hc := r.HeadcountByArea()
	if hc["Legal"] != 2.5 || hc["Executive"] != 0 {
		t.Fatalf("HeadcountByArea: %v", hc)
	}

	rn := r.RecruiterNames()
	if len(rn) != 2 || rn[0] != "Suzie Large" {
		t.Fatalf("RecruiterNames: %v", rn)
	}
}
