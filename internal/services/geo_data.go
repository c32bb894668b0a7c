package services

import "github.com/hiepsieuhp89/amz-2-admin-sub001/internal/domain"

// referenceGeography returns the bundled country → province → city → ward →
// postal dataset. The marketplace ships primarily to Vietnam with a small US
// footprint; the tree mirrors the subset the order tooling needs.
func referenceGeography() geographyData {
	node := func(code, name string) domain.GeographicNode {
		return domain.GeographicNode{Code: code, Name: name}
	}

	return geographyData{
		Countries: []domain.GeographicNode{
			node("VN", "Việt Nam"),
			node("US", "United States"),
		},
		Provinces: map[string][]domain.GeographicNode{
			"VN": {
				node("HN", "Hà Nội"),
				node("SG", "Hồ Chí Minh"),
				node("DN", "Đà Nẵng"),
			},
			"US": {
				node("CA", "California"),
				node("WA", "Washington"),
			},
		},
		Cities: map[string][]domain.GeographicNode{
			"VN/HN": {
				node("HN-BD", "Ba Đình"),
				node("HN-HK", "Hoàn Kiếm"),
				node("HN-CG", "Cầu Giấy"),
			},
			"VN/SG": {
				node("SG-Q1", "Quận 1"),
				node("SG-Q3", "Quận 3"),
				node("SG-TB", "Tân Bình"),
			},
			"VN/DN": {
				node("DN-HC", "Hải Châu"),
				node("DN-ST", "Sơn Trà"),
			},
			"US/CA": {
				node("CA-SF", "San Francisco"),
				node("CA-LA", "Los Angeles"),
			},
			"US/WA": {
				node("WA-SEA", "Seattle"),
			},
		},
		Wards: map[string][]domain.GeographicNode{
			"VN/HN/HN-BD": {
				node("HN-BD-01", "Phúc Xá"),
				node("HN-BD-02", "Trúc Bạch"),
			},
			"VN/HN/HN-HK": {
				node("HN-HK-01", "Hàng Bạc"),
				node("HN-HK-02", "Hàng Đào"),
			},
			"VN/HN/HN-CG": {
				node("HN-CG-01", "Dịch Vọng"),
			},
			"VN/SG/SG-Q1": {
				node("SG-Q1-01", "Bến Nghé"),
				node("SG-Q1-02", "Bến Thành"),
			},
			"VN/SG/SG-Q3": {
				node("SG-Q3-01", "Võ Thị Sáu"),
			},
			"VN/SG/SG-TB": {
				node("SG-TB-01", "Phường 2"),
			},
			"VN/DN/DN-HC": {
				node("DN-HC-01", "Thạch Thang"),
			},
			"VN/DN/DN-ST": {
				node("DN-ST-01", "An Hải Bắc"),
			},
			"US/CA/CA-SF": {
				node("CA-SF-01", "Mission District"),
			},
			"US/CA/CA-LA": {
				node("CA-LA-01", "Downtown"),
			},
			"US/WA/WA-SEA": {
				node("WA-SEA-01", "Capitol Hill"),
			},
		},
		Postal: map[string]string{
			"VN/HN/HN-BD/HN-BD-01":   "100001",
			"VN/HN/HN-BD/HN-BD-02":   "100002",
			"VN/HN/HN-HK/HN-HK-01":   "100101",
			"VN/HN/HN-HK/HN-HK-02":   "100102",
			"VN/HN/HN-CG/HN-CG-01":   "100301",
			"VN/SG/SG-Q1/SG-Q1-01":   "700001",
			"VN/SG/SG-Q1/SG-Q1-02":   "700002",
			"VN/SG/SG-Q3/SG-Q3-01":   "700301",
			"VN/SG/SG-TB/SG-TB-01":   "700601",
			"VN/DN/DN-HC/DN-HC-01":   "550001",
			"VN/DN/DN-ST/DN-ST-01":   "550101",
			"US/CA/CA-SF/CA-SF-01":   "94110",
			"US/CA/CA-LA/CA-LA-01":   "90012",
			"US/WA/WA-SEA/WA-SEA-01": "98102",
		},
	}
}
