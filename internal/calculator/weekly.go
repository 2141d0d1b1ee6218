package calculator

import "sort"

// TotalKey 合成的汇总实体键
const TotalKey = "Total"

// WeeklyMap 实体 -> 周 -> 金额
type WeeklyMap map[string]map[int]float64

// InitializeWeeklyMap 生成全零的周度映射
// 所有 (key, week) 组合都会出现，下游累加无需判空
func InitializeWeeklyMap(keys []string, weeks []int) WeeklyMap {
	m := make(WeeklyMap, len(keys))
	for _, key := range keys {
		m[key] = make(map[int]float64, len(weeks))
		for _, w := range weeks {
			m[key][w] = 0
		}
	}
	return m
}

// ComputeCumulativeTotals 周度金额转"滞后累计"
// 第 w 周的值 = 严格早于 w 的各周原始值之和（不含 w 本身），
// 因此排序后的第一周恒为 0。这样当周的实时预测/实际可以直接叠加而不重复计数。
// 最后合成 Total 实体：逐周对全部非 Total 实体求和
func ComputeCumulativeTotals(input WeeklyMap) WeeklyMap {
	result := make(WeeklyMap, len(input)+1)

	for key, weekValues := range input {
		result[key] = make(map[int]float64, len(weekValues))

		weeks := sortedWeeks(weekValues)
		for i, w := range weeks {
			if i == 0 {
				result[key][w] = 0
				continue
			}
			prev := weeks[i-1]
			result[key][w] = result[key][prev] + weekValues[prev]
		}
	}

	// Total 行覆盖所有实体出现过的周
	allWeeks := map[int]struct{}{}
	for _, weekMap := range result {
		for w := range weekMap {
			allWeeks[w] = struct{}{}
		}
	}

	total := make(map[int]float64, len(allWeeks))
	for w := range allWeeks {
		sum := 0.0
		for key, weekMap := range result {
			if key == TotalKey {
				continue
			}
			sum += weekMap[w]
		}
		total[w] = sum
	}
	result[TotalKey] = total

	return result
}

func sortedWeeks(m map[int]float64) []int {
	weeks := make([]int, 0, len(m))
	for w := range m {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)
	return weeks
}
