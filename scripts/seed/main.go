package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/fmujezinovic/mojblog/internal/models"
	"github.com/fmujezinovic/mojblog/internal/repository"
	"github.com/fmujezinovic/mojblog/internal/services"
	"github.com/fmujezinovic/mojblog/internal/utils"
)

const sectionBody = `Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed non risus.
Suspendisse lectus tortor, dignissim sit amet, adipiscing nec, ultricies sed,
dolor. Cras elementum ultrices diam. Maecenas ligula massa, varius a, semper
congue, euismod non, mi.`

// Generates a batch of section-structured posts for load testing the public
// pages and the FTS search.
func main() {
	total := flag.Int("n", 1000, "number of posts to generate")
	dbPath := flag.String("db", "blog.db", "database path")
	flag.Parse()

	db, err := utils.InitDatabase(*dbPath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	log.Println("clearing old posts")
	if err := db.Exec("DELETE FROM posts").Error; err != nil {
		log.Fatalf("failed to clear posts table: %v", err)
	}
	if err := db.Exec("DELETE FROM posts_fts").Error; err != nil {
		log.Printf("failed to clear FTS table: %v", err)
	}
	if err := db.Exec("VACUUM").Error; err != nil {
		log.Printf("VACUUM failed: %v", err)
	}

	postRepo := repository.NewPostRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	postService := services.NewPostService(postRepo, categoryRepo)
	categoryService := services.NewCategoryService(categoryRepo)

	category, err := categoryService.CreateCategory(fmt.Sprintf("Testna kategorija %d", time.Now().Unix()))
	if err != nil {
		log.Fatalf("failed to create category: %v", err)
	}

	log.Printf("generating %d posts", *total)
	for i := 1; i <= *total; i++ {
		sections := []utils.Section{
			{Heading: "Uvodno poglavje", Content: sectionBody},
			{Heading: "Drugo poglavje", Content: sectionBody},
			{Heading: "Zaključno poglavje", Content: sectionBody},
		}

		post := &models.Post{
			Title:       fmt.Sprintf("Testni zapis %d", i),
			ContentMD:   utils.StringifySections(sections),
			Description: fmt.Sprintf("Opis testnega zapisa %d za obremenitvene teste.", i),
			Intro:       "Uvodni odstavek testnega zapisa.",
			Conclusion:  "Zaključek testnega zapisa.",
			CategoryID:  category.ID,
			IsDraft:     false,
		}

		if err := postService.CreatePost(post); err != nil {
			log.Printf("failed to create post %d: %v", i, err)
		}

		if i%100 == 0 {
			log.Printf("generated %d/%d posts", i, *total)
		}
	}

	log.Printf("done, %d posts generated", *total)
}
