package db

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SkillCatalog is the fixed shared vocabulary seeded on first run.
var SkillCatalog = []string{
	"React", "JavaScript", "Python", "UI/UX Design", "Figma", "Data Science",
	"Machine Learning", "Web Development", "Digital Marketing", "SQL", "Excel",
	"Data Analysis", "Spanish", "Photography", "Adobe Lightroom", "Travel Planning",
	"Video Editing", "Social Media Marketing", "Graphic Design", "Node.js", "MongoDB",
	"AWS", "DevOps", "Mobile Development", "Flutter", "iOS Development", "SEO",
	"Content Writing", "Google Analytics", "Photoshop", "Brand Strategy",
	"Project Management", "Agile", "Leadership", "Public Speaking", "Data Visualization",
	"Tableau", "Business Intelligence", "Illustrator", "Branding", "Logo Design",
	"CSS", "Animation", "Music Production", "Guitar", "Audio Engineering",
	"Logic Pro", "Video Production", "Final Cut Pro", "Cinematography",
}

type seedUser struct {
	user    User
	offered []string
	wanted  []string
}

// Seed populates an empty store with the fixed demo dataset: the skill
// catalog, five users (user 1 is the demo viewer identity), their skill
// associations, and a couple of feed entries for user 1.
//
// It assumes empty tables; reseeding a non-empty store must go through
// Reset first, or the unique indexes will reject the duplicates.
func Seed(gdb *gorm.DB) error {
	for _, name := range SkillCatalog {
		if err := gdb.Create(&Skill{Name: name}).Error; err != nil {
			return fmt.Errorf("failed to seed skill %q: %w", name, err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()

	seedUsers := []seedUser{
		{
			user: User{
				Name:         "Alex Johnson",
				Email:        "alex.johnson@example.com",
				Location:     "San Francisco, CA",
				ProfilePhoto: "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=150&h=150&fit=crop&crop=face",
				Bio:          "Full-stack developer passionate about React and Python. Love teaching and learning new technologies.",
				Rating:       4.8,
				ReviewCount:  24,
				Availability: "Weekday Evenings",
				ResponseTime: "Usually responds in 2 hours",
				IsOnline:     true,
				Distance:     0,
			},
			offered: []string{"React", "JavaScript", "Python"},
			wanted:  []string{"UI/UX Design", "Data Science"},
		},
		{
			user: User{
				Name:         "Sarah Chen",
				Email:        "sarah.chen@example.com",
				Location:     "San Francisco, CA",
				ProfilePhoto: "https://images.unsplash.com/photo-1494790108755-2616b612b786?w=150&h=150&fit=crop&crop=face",
				Bio:          "UI/UX designer with a passion for creating beautiful and functional interfaces.",
				Rating:       4.8,
				ReviewCount:  24,
				Availability: "Weekday Evenings",
				ResponseTime: "Usually responds in 2 hours",
				IsOnline:     true,
				Distance:     2.5,
			},
			offered: []string{"React", "JavaScript", "UI/UX Design", "Figma"},
			wanted:  []string{"Python", "Data Science", "Machine Learning"},
		},
		{
			user: User{
				Name:         "Marcus Johnson",
				Email:        "marcus.johnson@example.com",
				Location:     "Austin, TX",
				ProfilePhoto: "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=150&h=150&fit=crop&crop=face",
				Bio:          "Data analyst with expertise in Python and SQL. Always eager to share knowledge.",
				Rating:       4.6,
				ReviewCount:  18,
				Availability: "Weekend Mornings",
				ResponseTime: "Usually responds in 4 hours",
				IsOnline:     false,
				Distance:     1.2,
			},
			offered: []string{"Python", "Data Analysis", "SQL", "Excel"},
			wanted:  []string{"Web Development", "React", "Digital Marketing"},
		},
		{
			user: User{
				Name:         "Elena Rodriguez",
				Email:        "elena.rodriguez@example.com",
				Location:     "Miami, FL",
				ProfilePhoto: "https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=150&h=150&fit=crop&crop=face",
				Bio:          "Photographer and language enthusiast. Love teaching Spanish and photography techniques.",
				Rating:       4.9,
				ReviewCount:  31,
				Availability: "Flexible Schedule",
				ResponseTime: "Usually responds in 1 hour",
				IsOnline:     true,
				Distance:     5.8,
			},
			offered: []string{"Spanish", "Photography", "Adobe Lightroom", "Travel Planning"},
			wanted:  []string{"Video Editing", "Social Media Marketing", "Graphic Design"},
		},
		{
			user: User{
				Name:         "David Kim",
				Email:        "david.kim@example.com",
				Location:     "Seattle, WA",
				ProfilePhoto: "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=150&h=150&fit=crop&crop=face",
				Bio:          "Backend developer specializing in Node.js and cloud technologies.",
				Rating:       4.7,
				ReviewCount:  22,
				Availability: "Weekday Afternoons",
				ResponseTime: "Usually responds in 3 hours",
				IsOnline:     true,
				Distance:     3.1,
			},
			offered: []string{"Node.js", "MongoDB", "AWS", "DevOps"},
			wanted:  []string{"Mobile Development", "Flutter", "iOS Development"},
		},
	}

	for i := range seedUsers {
		u := &seedUsers[i].user
		u.PasswordHash = string(hash)
		u.LastActive = now
		if err := gdb.Create(u).Error; err != nil {
			return fmt.Errorf("failed to seed user %q: %w", u.Name, err)
		}

		for _, name := range seedUsers[i].offered {
			if err := addSeedSkill(gdb, u.ID, name, SkillOffered); err != nil {
				return err
			}
		}
		for _, name := range seedUsers[i].wanted {
			if err := addSeedSkill(gdb, u.ID, name, SkillWanted); err != nil {
				return err
			}
		}
	}

	davidID := seedUsers[4].user.ID
	sarahID := seedUsers[1].user.ID

	activities := []Activity{
		{
			UserID:            seedUsers[0].user.ID,
			Type:              "request_received",
			Message:           "New swap request from David Kim for JavaScript tutoring",
			RelatedUserID:     &davidID,
			RelatedUserName:   "David Kim",
			RelatedUserAvatar: "https://images.unsplash.com/photo-1500648767791-00dcc994a43e?w=150&h=150&fit=crop&crop=face",
			IsNew:             true,
		},
		{
			UserID:            seedUsers[0].user.ID,
			Type:              "request_accepted",
			Message:           "Sarah Chen accepted your request for UI/UX Design lessons",
			RelatedUserID:     &sarahID,
			RelatedUserName:   "Sarah Chen",
			RelatedUserAvatar: "https://images.unsplash.com/photo-1534528741775-53994a69daeb?w=150&h=150&fit=crop&crop=face",
			IsNew:             true,
		},
	}
	for i := range activities {
		if err := gdb.Create(&activities[i]).Error; err != nil {
			return fmt.Errorf("failed to seed activity: %w", err)
		}
	}

	return nil
}

func addSeedSkill(gdb *gorm.DB, userID uint64, skillName string, typ SkillType) error {
	var skill Skill
	if err := gdb.Where("name = ?", skillName).First(&skill).Error; err != nil {
		return fmt.Errorf("seed skill %q not in catalog: %w", skillName, err)
	}
	us := UserSkill{UserID: userID, SkillID: skill.ID, Type: typ, ProficiencyLevel: 1}
	if err := gdb.Create(&us).Error; err != nil {
		return fmt.Errorf("failed to seed user skill %q: %w", skillName, err)
	}
	return nil
}

// Reset clears all six tables. Used by cmd/seed and tests before reseeding.
// Delete order respects the logical parent/child relationships.
func Reset(gdb *gorm.DB) error {
	for _, table := range []string{
		"activities", "active_swaps", "swap_requests", "user_skills", "skills", "users",
	} {
		if err := gdb.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	// Reset auto-increment sequences so reseeded ids start at 1 again.
	switch gdb.Dialector.Name() {
	case "mysql":
		for _, table := range []string{"activities", "active_swaps", "swap_requests", "user_skills", "skills", "users"} {
			gdb.Exec("ALTER TABLE " + table + " AUTO_INCREMENT = 1")
		}
	case "sqlite":
		gdb.Exec("DELETE FROM sqlite_sequence WHERE name IN ('activities','active_swaps','swap_requests','user_skills','skills','users')")
	}

	return nil
}
