package main

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/techemperorhousings/emp-housing-backend-sub000/models"
	"github.com/techemperorhousings/emp-housing-backend-sub000/storage"
)

// Creates (or repairs) the bootstrap super admin account from
// SUPER_ADMIN_EMAIL and SUPER_ADMIN_PASSWORD. Safe to run repeatedly.
func main() {
	storage.InitializeDB()

	email := os.Getenv("SUPER_ADMIN_EMAIL")
	password := os.Getenv("SUPER_ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("SUPER_ADMIN_EMAIL and SUPER_ADMIN_PASSWORD must be set")
	}

	var role models.Role
	if err := storage.DB.Where("name = ?", models.SuperAdminRoleName).First(&role).Error; err != nil {
		log.Fatalf("super admin role missing, run migrations first: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hashing password: %v", err)
	}
	hashedStr := string(hashed)

	var user models.User
	result := storage.DB.Where("email = ?", email).First(&user)
	if result.Error == nil {
		updates := map[string]interface{}{
			"role_id":   role.ID,
			"password":  hashedStr,
			"is_active": true,
		}
		if err := storage.DB.Model(&user).Updates(updates).Error; err != nil {
			log.Fatalf("updating existing account: %v", err)
		}
		fmt.Printf("existing account %s promoted to %s\n", email, models.SuperAdminRoleName)
		return
	}

	active := true
	verified := true
	user = models.User{
		FirstName:  "Super",
		LastName:   "Admin",
		Email:      email,
		Password:   hashedStr,
		RoleID:     role.ID,
		IsActive:   &active,
		IsVerified: &verified,
	}
	if err := storage.DB.Create(&user).Error; err != nil {
		log.Fatalf("creating super admin: %v", err)
	}

	fmt.Printf("super admin %s created (id %d)\n", email, user.ID)
}
