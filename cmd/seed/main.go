package main

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"aulapronta/internal/config"
	"aulapronta/internal/db"
	"aulapronta/internal/model"
	"aulapronta/internal/repository"
)

const seedPassword = "senha123"

type seedUser struct {
	Name  string
	Email string
	Role  model.Role
}

var seedUsers = []seedUser{
	{Name: "Profa. Helena Castro", Email: "helena.castro@escola.example", Role: model.RoleTeacher},
	{Name: "Prof. Ricardo Nunes", Email: "ricardo.nunes@escola.example", Role: model.RoleTeacher},
	{Name: "Ana Souza", Email: "ana.souza@aluno.example", Role: model.RoleStudent},
	{Name: "Bruno Lima", Email: "bruno.lima@aluno.example", Role: model.RoleStudent},
	{Name: "Carla Mendes", Email: "carla.mendes@aluno.example", Role: model.RoleStudent},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	activityRepo := repository.NewActivityRepository(gormDB)
	ctx := context.Background()

	users, created, err := seedAccounts(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	log.Printf("Users ready (%d created), default password %q", created, seedPassword)

	teacher := users["helena.castro@escola.example"]
	if err := seedActivity(ctx, activityRepo, teacher); err != nil {
		log.Fatalf("Failed to seed activity: %v", err)
	}

	log.Println("Seed completed successfully!")
}

// seedAccounts creates the demo users, skipping any that already exist.
func seedAccounts(ctx context.Context, repo repository.UserRepository) (map[string]*model.User, int, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, 0, fmt.Errorf("hash seed password: %w", err)
	}

	users := make(map[string]*model.User, len(seedUsers))
	created := 0
	for _, item := range seedUsers {
		existing, err := repo.FindByEmail(ctx, item.Email)
		if err != nil && err != gorm.ErrRecordNotFound {
			return nil, created, fmt.Errorf("error checking user %s: %w", item.Email, err)
		}
		if existing != nil {
			users[item.Email] = existing
			continue
		}

		user := &model.User{
			Name:         item.Name,
			Email:        item.Email,
			PasswordHash: string(hash),
			Role:         item.Role,
		}
		if err := repo.Create(ctx, user); err != nil {
			return nil, created, fmt.Errorf("error creating user %s: %w", item.Email, err)
		}
		users[item.Email] = user
		created++
	}
	return users, created, nil
}

// seedActivity creates one published public activity owned by the demo
// teacher, with questions, support materials, and student enrollments.
func seedActivity(ctx context.Context, repo repository.ActivityRepository, teacher *model.User) error {
	const title = "Frações no dia a dia"

	existing, err := repo.ListByOwner(ctx, teacher.ID, repository.Filter{})
	if err != nil {
		return fmt.Errorf("list teacher activities: %w", err)
	}
	for _, activity := range existing {
		if activity.Title == title {
			log.Println("Demo activity already exists, skipping")
			return nil
		}
	}

	half := "1/2"
	activity := &model.Activity{
		OwnerID:     teacher.ID,
		Title:       title,
		Description: "Exercícios introdutórios sobre frações aplicadas a situações cotidianas.",
		Subject:     "Matemática",
		GradeLevel:  "6º ano",
		Objective:   "Reconhecer e comparar frações em contextos reais.",
		Status:      model.StatusPublished,
		IsPublic:    true,
		Questions: []model.Question{
			{
				Prompt:        "Uma pizza foi dividida em 8 fatias e 4 foram comidas. Que fração da pizza sobrou?",
				Kind:          model.QuestionMultipleChoice,
				Choices:       []string{"1/4", "1/2", "3/4", "1/8"},
				CorrectAnswer: &half,
				Position:      0,
			},
			{
				Prompt:   "Explique com suas palavras o que significa a fração 3/4.",
				Kind:     model.QuestionEssay,
				Position: 1,
			},
		},
		Materials: []model.SupportMaterial{
			{
				Kind:     model.MaterialLink,
				Content:  "https://pt.khanacademy.org/math/arithmetic/fraction-arithmetic",
				Title:    "Revisão de frações",
				Position: 0,
			},
			{
				Kind:     model.MaterialText,
				Content:  "Lembre-se: o denominador indica em quantas partes o inteiro foi dividido.",
				Position: 1,
			},
		},
	}

	if err := repo.Create(ctx, activity); err != nil {
		return fmt.Errorf("create activity: %w", err)
	}

	enrollments := []model.Enrollment{
		{StudentEmail: "ana.souza@aluno.example"},
		{StudentEmail: "bruno.lima@aluno.example"},
		{StudentEmail: "carla.mendes@aluno.example"},
	}
	enrolled, err := repo.AddEnrollments(ctx, activity.ID, enrollments)
	if err != nil {
		return fmt.Errorf("enroll students: %w", err)
	}

	log.Printf("Created demo activity %q with %d enrollments", title, enrolled)
	return nil
}
