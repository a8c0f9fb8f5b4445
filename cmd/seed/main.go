package main

import (
	"context"
	"log"
	"os"
	"time"

	"studiobook/internal/database"
	"studiobook/internal/domain"
	"studiobook/internal/repository"
)

// Seeds a local database with two demo studios: one running on explicit
// availability rules, one with zero rules to exercise the default weekday
// window.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "studiobook.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed: ", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db, repository.Models()...); err != nil {
		log.Fatal("Migrate failed: ", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM gateway_payments")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM availability_rules")
	db.Exec("DELETE FROM equipment_items")
	db.Exec("DELETE FROM studio_services")
	db.Exec("DELETE FROM studios")

	ctx := context.Background()
	studios := repository.NewStudioRepository(db)
	services := repository.NewServiceRepository(db)
	equipment := repository.NewEquipmentRepository(db)
	rules := repository.NewAvailabilityRuleRepository(db)

	log.Println("Creating studios...")

	aurora := &domain.Studio{
		OwnerID:     1,
		Name:        "Aurora Studio",
		Description: "Дневной свет, циклорама 6х4, гримерная",
		Address:     "ул. Абая 150",
		City:        "Алматы",
	}
	if err := studios.Create(ctx, aurora); err != nil {
		log.Fatal("seed studio: ", err)
	}

	loft := &domain.Studio{
		OwnerID:     2,
		Name:        "Loft 19",
		Description: "Лофт с кирпичной стеной и окнами в пол",
		Address:     "пр. Кабанбай батыра 19",
		City:        "Астана",
	}
	if err := studios.Create(ctx, loft); err != nil {
		log.Fatal("seed studio: ", err)
	}

	log.Println("Creating services...")
	for _, s := range []domain.StudioService{
		{StudioID: aurora.ID, Name: "Фотосъемка", Price: 8000, DurationMinutes: 60, IsActive: true},
		{StudioID: aurora.ID, Name: "Видеосъемка", Price: 12000, DurationMinutes: 60, IsActive: true},
		{StudioID: aurora.ID, Name: "Съемка с визажистом", Price: 15000, DurationMinutes: 60, IsActive: true},
		{StudioID: loft.ID, Name: "Фотосъемка", Price: 6000, DurationMinutes: 60, IsActive: true},
		{StudioID: loft.ID, Name: "Предметная съемка", Price: 7000, DurationMinutes: 60, IsActive: true},
	} {
		s := s
		if err := services.Create(ctx, &s); err != nil {
			log.Fatal("seed service: ", err)
		}
	}

	log.Println("Creating equipment...")
	for _, e := range []domain.EquipmentItem{
		{StudioID: aurora.ID, Name: "Godox SK400II", Category: "light", DayRate: 4000, Quantity: 3, IsActive: true},
		{StudioID: aurora.ID, Name: "Canon EOS R6", Category: "camera", DayRate: 10000, Quantity: 1, IsActive: true},
		{StudioID: aurora.ID, Name: "Фон бумажный, серый", Category: "background", DayRate: 2000, Quantity: 2, IsActive: true},
		{StudioID: loft.ID, Name: "Aputure 120D", Category: "light", DayRate: 5000, Quantity: 2, IsActive: true},
	} {
		e := e
		if err := equipment.Create(ctx, &e); err != nil {
			log.Fatal("seed equipment: ", err)
		}
	}

	// Aurora declares its own hours: long weekdays plus Saturday mornings.
	// Loft 19 keeps zero rules, so it falls back to the default window.
	log.Println("Creating availability rules...")
	saturday := []int{int(time.Saturday)}
	for _, r := range []domain.AvailabilityRule{
		{
			StudioID:    aurora.ID,
			Kind:        domain.RuleRecurring,
			Weekdays:    []int{1, 2, 3, 4, 5},
			StartMinute: 8 * 60,
			EndMinute:   22 * 60,
		},
		{
			StudioID:    aurora.ID,
			Kind:        domain.RuleRecurring,
			Weekdays:    saturday,
			StartMinute: 10 * 60,
			EndMinute:   15 * 60,
		},
	} {
		r := r
		if err := r.Validate(); err != nil {
			log.Fatal("seed rule: ", err)
		}
		if err := rules.Create(ctx, &r); err != nil {
			log.Fatal("seed rule: ", err)
		}
	}

	log.Println("Done.")
	log.Printf("Studios: %q (id=%d, rules), %q (id=%d, default hours)", aurora.Name, aurora.ID, loft.Name, loft.ID)
}
