package main

import (
	"context"
	"flag"
	"fmt"

	"mycomentor/pkg/cache"
	"mycomentor/pkg/config"
	"mycomentor/pkg/database"
	"mycomentor/pkg/logger"
	"mycomentor/pkg/models"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Failed to connect to redis: %v (lesson cache will expire on its own)", err)
		redisClient = nil
	}

	if err := seedDatabase(db, redisClient, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func seedDatabase(db *gorm.DB, redisClient *redis.Client, log *logger.Logger) error {
	if err := seedUsers(db, log); err != nil {
		return err
	}

	if err := seedLessons(db, log); err != nil {
		return err
	}

	if redisClient != nil {
		redisClient.Del(context.Background(), "lessons:catalogue")
	}

	return nil
}

func seedUsers(db *gorm.DB, log *logger.Logger) error {
	testUsers := []struct {
		fullName string
		email    string
		username string
		password string
	}{
		{"Nimal Perera", "nimal@test.com", "nimal_grower", "password123"},
		{"Kumari Silva", "kumari@test.com", "kumari_grower", "password123"},
		{"Sunil Fernando", "sunil@test.com", "sunil_grower", "password123"},
	}

	for _, userData := range testUsers {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(userData.password), bcrypt.DefaultCost)

		user := &models.User{
			FullName: userData.fullName,
			Email:    userData.email,
			Username: userData.username,
			Password: string(hashedPassword),
			Role:     models.RoleGrower,
			IsActive: true,
		}

		if err := user.BeforeCreate(nil); err != nil {
			return fmt.Errorf("failed to generate user ID: %w", err)
		}

		var existingUser models.User
		result := db.Where("email = ? OR username = ?", user.Email, user.Username).First(&existingUser)
		if result.Error == nil {
			log.Info("User %s already exists, skipping", user.Username)
			continue
		}

		if err := db.Create(user).Error; err != nil {
			log.Error("Failed to create user %s: %v", user.Username, err)
			continue
		}

		log.Info("Created user: %s (%s)", user.Username, user.Email)
	}

	return nil
}

type seedLesson struct {
	title    string
	duration string
	content  string
}

type seedCategory struct {
	title       string
	icon        string
	description string
	lessons     []seedLesson
}

// Catalogue for the lessons screen. Ordering follows slice order.
var lessonCatalogue = []seedCategory{
	{
		title:       "Mushroom Basics",
		icon:        "leaf-outline",
		description: "What mushrooms are and how they grow",
		lessons: []seedLesson{
			{
				title:    "What are Mushrooms?",
				duration: "5 min read",
				content: "Mushrooms are the fruiting bodies of fungi, which are organisms that are neither plants nor animals. " +
					"Unlike plants, fungi cannot produce their own food through photosynthesis.\n\n" +
					"Fungi consist of thread-like structures called mycelium that grow underground or within their food source. " +
					"When conditions are right, the mycelium produces fruiting bodies called mushrooms, which release spores for reproduction.",
			},
			{
				title:    "Mushroom Life Cycle",
				duration: "6 min read",
				content: "The life cycle of a mushroom has several distinct stages:\n\n" +
					"1. Spore Germination: Microscopic spores land on a suitable substrate and germinate, producing tiny thread-like structures called hyphae.\n" +
					"2. Mycelium Growth: Hyphae fuse and spread through the substrate as mycelium.\n" +
					"3. Pinning: Environmental triggers cause the mycelium to form tiny mushroom pins.\n" +
					"4. Fruiting: Pins mature into full mushrooms that release new spores.",
			},
			{
				title:    "Mushroom Anatomy",
				duration: "4 min read",
				content: "A typical mushroom consists of several key parts:\n\n" +
					"1. Cap (Pileus): The umbrella-like top of the mushroom that protects the spore-producing structures underneath.\n" +
					"2. Gills (Lamellae): Thin structures under the cap where spores are produced.\n" +
					"3. Stem (Stipe): Supports the cap and lifts it above the substrate.\n" +
					"4. Mycelium: The vegetative network feeding the fruiting body.",
			},
		},
	},
	{
		title:       "Cultivation Techniques",
		icon:        "fitness-outline",
		description: "From substrate preparation to harvest",
		lessons: []seedLesson{
			{
				title:    "Substrate Preparation",
				duration: "7 min read",
				content: "Proper substrate preparation is crucial for successful mushroom cultivation.\n\n" +
					"Substrate Selection: Different mushrooms prefer different growing media. Common substrates include straw, " +
					"hardwood sawdust, coffee grounds and composted manure.\n\n" +
					"Pasteurization or sterilization removes competing organisms before inoculation.",
			},
			{
				title:    "Spawn Run & Fruiting",
				duration: "8 min read",
				content: "After preparing your substrate, the next phases are spawn run and fruiting.\n\n" +
					"Spawn Run Phase: Mix mushroom spawn with the prepared substrate and incubate in the dark while mycelium colonizes it.\n\n" +
					"Fruiting Phase: Drop the temperature, raise humidity and introduce fresh air and light to trigger pinning, then maintain " +
					"those conditions until harvest.",
			},
			{
				title:    "Common Cultivation Problems",
				duration: "6 min read",
				content: "Even experienced growers encounter problems. Here are common issues and solutions.\n\n" +
					"Contamination: Green mold (Trichoderma) often appears as green patches. Prevention: proper sterilization and clean technique.\n\n" +
					"Poor fruiting is usually caused by low humidity, stale air or the wrong temperature range.",
			},
		},
	},
	{
		title:       "Mushroom Types",
		icon:        "apps-outline",
		description: "Culinary, medicinal and wild varieties",
		lessons: []seedLesson{
			{
				title:    "Culinary Mushrooms",
				duration: "5 min read",
				content: "Popular edible mushrooms for cultivation and consumption.\n\n" +
					"Button/White Mushroom (Agaricus bisporus): The most commonly consumed mushroom worldwide.\n" +
					"Oyster (Pleurotus ostreatus): Fast growing and forgiving, ideal for beginners.\n" +
					"Shiitake (Lentinula edodes): Rich flavour, grown on hardwood logs or sawdust blocks.",
			},
			{
				title:    "Medicinal Mushrooms",
				duration: "6 min read",
				content: "Mushrooms with traditionally recognized or scientifically studied health benefits.\n\n" +
					"Reishi (Ganoderma lucidum): Known as the \"mushroom of immortality\" in traditional Chinese medicine.\n" +
					"Lion's Mane (Hericium erinaceus): Studied for nerve growth support.\n" +
					"Turkey Tail (Trametes versicolor): Rich in polysaccharides.",
			},
			{
				title:    "Wild Mushrooms & Safety",
				duration: "7 min read",
				content: "Important safety information about wild mushroom identification.\n\n" +
					"Golden Rules of Foraging: Never eat any mushroom you cannot identify with 100% certainty. " +
					"Learn the dangerous lookalikes in your region and always consult an expert before consuming wild finds.",
			},
		},
	},
	{
		title:       "Sustainable Practices",
		icon:        "leaf-outline",
		description: "Growing with the environment in mind",
		lessons: []seedLesson{
			{
				title:    "Eco-Friendly Growing",
				duration: "5 min read",
				content: "Mushroom cultivation can be one of the most sustainable forms of food production.\n\n" +
					"Waste Stream Utilization: Agricultural waste such as straw, corn cobs and coffee grounds " +
					"makes excellent substrate, turning byproducts into food.",
			},
			{
				title:    "Mycelium as Material",
				duration: "4 min read",
				content: "Beyond food production, mushroom mycelium has exciting applications as a sustainable material.\n\n" +
					"Packaging Materials: Companies now produce protective packaging from mycelium bound to agricultural waste, " +
					"a compostable alternative to polystyrene.",
			},
			{
				title:    "Mycoremediation",
				duration: "6 min read",
				content: "Mycoremediation is the practice of using fungi to clean up environmental contaminants.\n\n" +
					"How It Works: Fungi produce powerful enzymes that can break down complex compounds, " +
					"including some petroleum products and pesticides.",
			},
		},
	},
}

func seedLessons(db *gorm.DB, log *logger.Logger) error {
	for catOrder, cat := range lessonCatalogue {
		var existing models.LessonCategory
		result := db.Where("title = ?", cat.title).First(&existing)
		if result.Error == nil {
			log.Info("Lesson category %q already exists, skipping", cat.title)
			continue
		}

		category := &models.LessonCategory{
			Title:       cat.title,
			Icon:        cat.icon,
			Description: cat.description,
			Order:       catOrder,
		}
		if err := category.BeforeCreate(nil); err != nil {
			return fmt.Errorf("failed to generate category ID: %w", err)
		}
		if err := db.Create(category).Error; err != nil {
			log.Error("Failed to create lesson category %q: %v", cat.title, err)
			continue
		}

		for lessonOrder, l := range cat.lessons {
			lesson := &models.Lesson{
				CategoryID: category.ID,
				Title:      l.title,
				Duration:   l.duration,
				Content:    l.content,
				Order:      lessonOrder,
			}
			if err := lesson.BeforeCreate(nil); err != nil {
				return fmt.Errorf("failed to generate lesson ID: %w", err)
			}
			if err := db.Create(lesson).Error; err != nil {
				log.Error("Failed to create lesson %q: %v", l.title, err)
			}
		}

		log.Info("Created lesson category %q with %d lessons", cat.title, len(cat.lessons))
	}

	return nil
}
