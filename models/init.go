package models

// All returns every model managed by AutoMigrate
func All() []interface{} {
	return []interface{}{
		&User{},
		&Team{},
		&TeamMember{},
		&Task{},
		&Leave{},
		&PerformanceReview{},
		&Goal{},
		&Notification{},
	}
}

// AdminEmployeeID is reserved for the bootstrap admin
const AdminEmployeeID = "EMP000"

// DefaultAdmin is the bootstrap admin account created on first start
func DefaultAdmin(email, passwordHash string) User {
	return User{
		Email:           email,
		PasswordHash:    passwordHash,
		Role:            RoleAdmin,
		IsActive:        true,
		TokenVersion:    1,
		FirstName:       "System",
		LastName:        "Administrator",
		Location:        DefaultLocation,
		EmployeeID:      AdminEmployeeID,
		Department:      DefaultDepartment,
		Skills:          []string{DefaultSkill},
		ExperienceLevel: ExperienceLead,
		CurrentProjects: []string{},
		CapacityHours:   DefaultCapacityHours,
	}
}
