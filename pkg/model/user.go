package model

import "time"

const usersTable = "main.users"

type UserDataEntity struct {
	Id        int64     `gorm:"column:id"`
	Email     string    `gorm:"column:email"`
	Username  string    `gorm:"column:username"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (dataEntity *UserDataEntity) TableName() string {
	return usersTable
}

func (dataEntity *UserDataEntity) ToDomain() *User {
	return &User{
		Id:        dataEntity.Id,
		Email:     dataEntity.Email,
		Username:  dataEntity.Username,
		CreatedAt: dataEntity.CreatedAt,
		UpdatedAt: dataEntity.UpdatedAt,
	}
}

type User struct {
	Id        int64
	Email     string
	Username  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
