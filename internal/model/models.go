package model

// InvoiceRecord 发票收入记录（外部账务系统导入，只读）
type InvoiceRecord struct {
	ID            int64   `json:"id"`
	InvoiceNumber string  `json:"invoiceNumber"`
	Consultant    string  `json:"Consultant"`
	Area          string  `json:"Area"`
	Week          int     `json:"Week"`
	Margin        float64 `json:"Margin"`
	Month         string  `json:"FutureYouMonth"` // 财务月份短名 (Jul..Jun)
	FinancialYear string  `json:"FinancialYear"`  // 如 FY26
	Quarter       string  `json:"Quarter"`        // 如 Q1
	Type          string  `json:"Type"`           // Perm / Temp
	CreatedAt     string  `json:"createdAt"`
}

// ForecastRow 顾问提交的周度预测行
// 同一目标周可存在多次提交，按 uploadWeek 区分；展示时取最新一次
type ForecastRow struct {
	ID              int64  `json:"id"`
	Key             string `json:"key"` // fy:month:week:name
	FY              string `json:"fy"`
	Month           string `json:"month"`
	Week            int    `json:"week"`
	Range           string `json:"range"`
	Revenue         int    `json:"revenue"`
	TempRevenue     int    `json:"tempRevenue"`
	Notes           string `json:"notes"`
	Name            string `json:"name"`
	UploadMonth     string `json:"uploadMonth"`
	UploadWeek      int    `json:"uploadWeek"`
	UploadYear      int    `json:"uploadYear"`
	UploadTimestamp string `json:"uploadTimestamp"`
	UploadUser      string `json:"uploadUser"`
}

// ForecastSummaryRow 预测汇总行（revenue + tempRevenue 合并后的口径）
type ForecastSummaryRow struct {
	Name         string  `json:"name"`
	Week         int     `json:"week"`
	TotalRevenue float64 `json:"total_revenue"`
	UploadWeek   int     `json:"uploadWeek"`
}

// Recruiter 顾问（原 Firestore recruiters 集合）
type Recruiter struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Area string `json:"area"`
}

// Area 业务板块（原 Firestore areas 集合）
type Area struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Headcount float64 `json:"headcount"`
}

// MonthlyTarget 月度目标
type MonthlyTarget struct {
	ID              int64   `json:"id"`
	FinancialYear   string  `json:"FinancialYear"`
	Month           string  `json:"Month"`
	Target          float64 `json:"Target"`
	UploadUser      string  `json:"uploadUser"`
	UploadTimestamp string  `json:"uploadTimestamp"` // 展示用本地格式
	UploadTimeRaw   string  `json:"uploadTimeRaw"`   // ISO 原始时间，用于取最新
}

// User 登录用户
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"` // admin / user
	PasswordHash string `json:"-"`
}

// TriggerEvent 工作流触发/文件上传的历史记录
type TriggerEvent struct {
	ID        int64  `json:"id"`
	Kind      string `json:"kind"` // trigger / upload
	Workflow  string `json:"workflow"`
	FileName  string `json:"fileName"`
	User      string `json:"user"`
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}
