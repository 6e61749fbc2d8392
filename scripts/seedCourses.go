package main

import (
	"encoding/json"
	"os"

	"elearn/config"
	"elearn/database"
	"elearn/logger"
	courseModels "elearn/models/course"
	"elearn/utils"
)

// Seeds the course catalogue from a JSON array of course payloads, the same
// shape POST /api/courses accepts. Courses are matched by title: new titles
// are inserted, existing ones get their tree replaced.
//
//	go run scripts/seedCourses.go [catalogue.json]
func main() {
	cfg := config.LoadConfig()
	if err := logger.Init(cfg.AppEnv); err != nil {
		panic(err)
	}
	defer logger.Log.Sync()

	if err := database.ConnectDb(cfg); err != nil {
		logger.Log.Fatal("Failed to connect database", "error", err)
	}

	path := "scripts/courses.example.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Log.Fatal("Failed to open catalogue", "path", path, "error", err)
	}

	var inputs []courseModels.CourseInput
	if err := json.Unmarshal(raw, &inputs); err != nil {
		logger.Log.Fatal("Failed to parse catalogue", "path", path, "error", err)
	}

	logger.Log.Info("Total courses to import", "count", len(inputs))

	db := database.Database.Db
	inserted, updated, skipped := 0, 0, 0

	for i := range inputs {
		in := &inputs[i]

		if errs := utils.ValidateStruct(in); len(errs) > 0 {
			logger.Log.Warn("Skipping invalid course", "index", i, "title", in.Title, "errors", errs)
			skipped++
			continue
		}
		if dups := in.DuplicateIDs(); len(dups) > 0 {
			logger.Log.Warn("Skipping course with duplicate node ids", "title", in.Title, "ids", dups)
			skipped++
			continue
		}

		units := in.BuildUnits()

		var existing courseModels.Course
		result := db.Where("title = ? AND is_deleted = ?", in.Title, false).First(&existing)

		if result.Error != nil {
			course := courseModels.Course{
				Title:            in.Title,
				Description:      in.Description,
				Category:         in.Category,
				Difficulty:       in.Difficulty,
				Author:           in.Author,
				ThumbnailURL:     in.ThumbnailURL,
				IsPublished:      in.IsPublished == nil || *in.IsPublished,
				StructureVersion: 1,
				Units:            units,
			}
			if err := db.Create(&course).Error; err != nil {
				logger.Log.Error("Error inserting course", "title", in.Title, "error", err)
				continue
			}
			inserted++
			continue
		}

		if !courseModels.SameStructure(existing.Units, units) {
			// learners are resynced by the nightly reconcile job
			existing.StructureVersion++
		}
		existing.Description = in.Description
		existing.Category = in.Category
		existing.Difficulty = in.Difficulty
		existing.Author = in.Author
		existing.ThumbnailURL = in.ThumbnailURL
		if in.IsPublished != nil {
			existing.IsPublished = *in.IsPublished
		}
		existing.Units = units

		if err := db.Save(&existing).Error; err != nil {
			logger.Log.Error("Error updating course", "title", in.Title, "error", err)
			continue
		}
		updated++
	}

	logger.Log.Info("=== Import Complete ===", "inserted", inserted, "updated", updated, "skipped", skipped)
}
