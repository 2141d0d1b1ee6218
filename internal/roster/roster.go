// Package roster 顾问花名册：顾问与板块的归属关系在这里统一维护，
// 各汇总视图不再各自拼接顾问→板块映射。
package roster

import (
	"fmt"

	"github.com/Trihalo/XeroAPI/internal/model"
)

// Roster 一次加载后的顾问/板块快照
type Roster struct {
	recruiters []*model.Recruiter
	areas      []*model.Area
	areaOf     map[string]string
}

// Source 花名册数据来源
type Source interface {
	ListRecruiters() ([]*model.Recruiter, error)
	ListAreas() ([]*model.Area, error)
}

// Load 从数据源加载花名册快照
func Load(src Source) (*Roster, error) {
	recruiters, err := src.ListRecruiters()
	if err != nil {
		return nil, fmt.Errorf("failed to load recruiters: %w", err)
	}
	areas, err := src.ListAreas()
	if err != nil {
		return nil, fmt.Errorf("failed to load areas: %w", err)
	}

	areaOf := make(map[string]string, len(recruiters))
	for _, r := range recruiters {
		areaOf[r.Name] = r.Area
	}

	return &Roster{recruiters: recruiters, areas: areas, areaOf: areaOf}, nil
}

// AreaOf 查顾问所属板块，查不到时返回 false
func (r *Roster) AreaOf(name string) (string, bool) {
	area, ok := r.areaOf[name]
	return area, ok
}

// RecruiterNames 全部顾问姓名（按板块顺序）
func (r *Roster) RecruiterNames() []string {
	out := make([]string, 0, len(r.recruiters))
	for _, rec := range r.recruiters {
		out = append(out, rec.Name)
	}
	return out
}

// AreaNames 全部板块名称（按显示顺序）
func (r *Roster) AreaNames() []string {
	out := make([]string, 0, len(r.areas))
	for _, a := range r.areas {
		out = append(out, a.Name)
	}
	return out
}

// HeadcountByArea 各板块人数
func (r *Roster) HeadcountByArea() map[string]float64 {
	out := make(map[string]float64, len(r.areas))
	for _, a := range r.areas {
		out[a.Name] = a.Headcount
	}
	return out
}

// Recruiters 顾问明细
func (r *Roster) Recruiters() []*model.Recruiter {
	return r.recruiters
}

// Areas 板块明细
func (r *Roster) Areas() []*model.Area {
	return r.areas
}

// Contains 顾问是否在册
func (r *Roster) Contains(name string) bool {
	_, ok := r.areaOf[name]
	return ok
}
