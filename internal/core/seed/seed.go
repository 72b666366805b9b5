// Package seed bundles the sample documents applied once to each empty
// collection at first observation.
package seed

import "github.com/turfworks/greenmaster/internal/core/domain"

// For returns the seed set for a collection, or nil when the collection has
// none (the audit log always starts empty).
func For(collection string) []domain.Document {
	switch collection {
	case domain.CollectionCourses:
		return courses()
	case domain.CollectionUsers:
		return users()
	case domain.CollectionPeople:
		return people()
	case domain.CollectionLogs:
		return logs()
	case domain.CollectionEvents:
		return events()
	case domain.CollectionFinancials:
		return financials()
	case domain.CollectionMaterials:
		return materials()
	default:
		return nil
	}
}

func courses() []domain.Document {
	return []domain.Document{
		{
			"id":          "c1",
			"name":        "Pinebrook Country Club",
			"region":      "Gyeonggi",
			"address":     "12 Pinebrook-ro, Yongin",
			"holes":       27,
			"grass_type":  "bentgrass",
			"status":      string(domain.CourseActive),
			"description": "27-hole member club, annual greens renovation contract.",
			"created_at":  "2024-03-02T09:00:00Z",
		},
		{
			"id":          "c2",
			"name":        "Lakeview Golf Resort",
			"region":      "Gangwon",
			"address":     "88 Lakeview-gil, Chuncheon",
			"holes":       18,
			"grass_type":  "zoysia",
			"status":      string(domain.CourseProspect),
			"description": "Resort course, trialing our fairway fertilizer line.",
			"created_at":  "2024-05-20T09:00:00Z",
		},
	}
}

func users() []domain.Document {
	return []domain.Document{
		{
			"id":         "u1",
			"name":       "GreenMaster Admin",
			"email":      "admin@greenmaster.com",
			"department": "HQ",
			"role":       domain.RoleAdmin,
			"status":     domain.StatusApproved,
			"created_at": "2024-01-05T00:00:00Z",
		},
		{
			"id":         "u2",
			"name":       "Minji Seo",
			"email":      "minji.seo@greenmaster.com",
			"department": "Field Sales",
			"role":       domain.RoleManager,
			"status":     domain.StatusApproved,
			"created_at": "2024-02-11T00:00:00Z",
		},
		{
			"id":         "u3",
			"name":       "Hojin Park",
			"email":      "hojin.park@greenmaster.com",
			"department": "Agronomy",
			"role":       domain.RoleViewer,
			"status":     domain.StatusPending,
			"created_at": "2024-06-30T00:00:00Z",
		},
	}
}

func people() []domain.Document {
	return []domain.Document{
		{
			"id":          "p1",
			"name":        "Kim Cheolsu",
			"course_id":   "c1",
			"course_name": "Pinebrook Country Club",
			"title":       "Course Superintendent",
			"phone":       "010-2345-6789",
			"disposition": "friendly",
			"notes":       "Prefers morning visits. Decision maker for turf chemicals.",
		},
		{
			"id":          "p2",
			"name":        "Lee Haneul",
			"course_id":   "c2",
			"course_name": "Lakeview Golf Resort",
			"title":       "Purchasing Manager",
			"phone":       "010-9876-5432",
			"disposition": "neutral",
			"notes":       "Comparing us against two competitors.",
		},
	}
}

func logs() []domain.Document {
	return []domain.Document{
		{
			"id":          "l1",
			"course_id":   "c1",
			"course_name": "Pinebrook Country Club",
			"visit_date":  "2025-04-14",
			"visit_type":  "scheduled",
			"author_id":   "u2",
			"author":      "Minji Seo",
			"content":     "Quarterly greens inspection. Applied test patch of new fungicide on hole 9.",
			"issues":      []string{"dollar spot on holes 7-9"},
			"follow_up":   "Re-check fungicide patch in two weeks.",
		},
		{
			"id":          "l2",
			"course_id":   "c2",
			"course_name": "Lakeview Golf Resort",
			"visit_date":  "2025-04-21",
			"visit_type":  "sales",
			"author_id":   "u2",
			"author":      "Minji Seo",
			"content":     "Fertilizer trial review with purchasing. Positive feedback on fairway color.",
		},
	}
}

func events() []domain.Document {
	return []domain.Document{
		{
			"id":       "e1",
			"title":    "Korea Turfgrass Expo",
			"date":     "2025-09-18",
			"location": "KINTEX, Goyang",
			"kind":     "trade_show",
			"memo":     "Booth B-12 reserved. Invite Pinebrook and Lakeview contacts.",
		},
	}
}

func financials() []domain.Document {
	return []domain.Document{
		{
			"id":          "f1",
			"course_id":   "c1",
			"course_name": "Pinebrook Country Club",
			"year":        2025,
			"month":       3,
			"category":    "maintenance_contract",
			"amount":      42000000,
			"currency":    "KRW",
			"memo":        "Q1 invoice, paid.",
		},
	}
}

func materials() []domain.Document {
	return []domain.Document{
		{
			"id":           "m1",
			"course_id":    "c1",
			"course_name":  "Pinebrook Country Club",
			"name":         "Bentgrass seed (Penncross)",
			"quantity":     200,
			"unit":         "kg",
			"unit_price":   38000,
			"delivered_at": "2025-03-28",
			"memo":         "Spring overseeding stock.",
		},
	}
}
