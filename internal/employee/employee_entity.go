package employee

import "time"

// Employee is keyed by the identifier assigned by the biometric system, not a
// generated UUID; imports create rows on first sight and never delete them.
type Employee struct {
	ID         string    `gorm:"column:id;type:varchar(64);primaryKey"`
	Name       string    `gorm:"column:name;type:varchar(255);not null"`
	Email      *string   `gorm:"column:email;type:varchar(255);uniqueIndex:uq_employee_email"`
	Department *string   `gorm:"column:department;type:varchar(100)"`
	Phone      *string   `gorm:"column:phone;type:varchar(50)"`
	CreatedAt  time.Time `gorm:"column:created;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:modified;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employee_master"
}
