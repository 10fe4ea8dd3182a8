package model

// Classification 学科/主题/子主题，均为可选字段，nil 表示未设置
type Classification struct {
	Subject  *string `gorm:"size:100" json:"subject,omitempty"`
	Topic    *string `gorm:"size:200" json:"topic,omitempty"`
	Subtopic *string `gorm:"size:200" json:"subtopic,omitempty"`
}

// OptionalString 空字符串视为未设置
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func StringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
