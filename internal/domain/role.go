package domain

// Role роль актора, выполняющего операцию
// Движок не хранит пользователей: идентификатор и роль приходят
// из заголовков запроса, проставленных шлюзом аутентификации
type Role string

const (
	RoleStudent Role = "student"
	RoleMentor  Role = "mentor"
	RoleAdmin   Role = "admin"
)

// IsAdmin возвращает true для административной роли
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}
