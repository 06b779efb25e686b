package authz

// --- РОЛИ, ИЗВЕСТНЫЕ СЕРВИСУ ---

const (
	// RoleVoter — базовая роль, которую получает любой пользователь без назначений.
	RoleVoter = "Voter"
	RoleAdmin = "Admin"
)
