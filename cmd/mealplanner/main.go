// Package main provides the meal planner CLI: one invocation runs one
// planning session for a profile, prints the recommendation and optionally
// records a rating.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/fx"

	"github.com/mealforge/v1/internal/domain/profile"
	"github.com/mealforge/v1/internal/domain/recipe"
	"github.com/mealforge/v1/internal/infrastructure/container"
	"github.com/mealforge/v1/internal/ports/inbound"
	"github.com/mealforge/v1/internal/ports/outbound"
)

// profileInput is the JSON shape accepted via -profile.
type profileInput struct {
	Name              string   `json:"name"`
	Age               *int     `json:"age"`
	Sex               string   `json:"sex"`
	WeightKg          *float64 `json:"weight_kg"`
	HeightCm          *float64 `json:"height_cm"`
	ActivityLevel     string   `json:"activity_level"`
	FitnessGoal       string   `json:"fitness_goal"`
	Allergies         []string `json:"allergies"`
	MedicalConditions []string `json:"medical_conditions"`
	Preferences       struct {
		Cuisine    string `json:"cuisine"`
		SpiceLevel string `json:"spice_level"`
	} `json:"preferences"`
}

func main() {
	profilePath := flag.String("profile", "", "path to a profile JSON file (required)")
	skipFeedback := flag.Bool("no-feedback", false, "skip the rating prompt after the recommendation")
	flag.Parse()

	if *profilePath == "" {
		fmt.Fprintln(os.Stderr, "usage: mealplanner -profile <profile.json> [-no-feedback]")
		os.Exit(2)
	}

	input, err := loadProfileInput(*profilePath)
	if err != nil {
		log.Fatalf("Failed to load profile: %v", err)
	}

	var (
		planner inbound.MealPlannerService
		users   outbound.UserRepository
	)
	app := fx.New(
		fx.NopLogger,
		container.Module,
		fx.Populate(&planner, &users),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer stopCancel()
		if err := app.Stop(stopCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	ctx := context.Background()
	if err := run(ctx, planner, users, input, *skipFeedback); err != nil {
		log.Fatalf("Session failed: %v", err)
	}
}

func run(ctx context.Context, planner inbound.MealPlannerService, users outbound.UserRepository, input *profileInput, skipFeedback bool) error {
	userID, created, err := users.GetOrCreate(ctx, input.Name)
	if err != nil {
		return fmt.Errorf("resolve user: %w", err)
	}
	if created {
		fmt.Printf("Welcome, %s!\n\n", input.Name)
	} else {
		fmt.Printf("Welcome back, %s!\n\n", input.Name)
	}

	p := toProfile(userID, input)
	result, err := planner.PlanMeal(ctx, p)
	if err != nil {
		return err
	}

	printResult(result)

	if skipFeedback {
		return nil
	}
	rating, ok := promptRating(os.Stdin)
	if !ok {
		return nil
	}
	if err := planner.SubmitFeedback(ctx, result.UserID, result.RecipeID, rating, result.FinalRecipe); err != nil {
		return fmt.Errorf("record feedback: %w", err)
	}
	fmt.Println("Thanks, your feedback was recorded.")
	return nil
}

func loadProfileInput(path string) (*profileInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var input profileInput
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("profile name is required")
	}
	return &input, nil
}

func toProfile(userID uuid.UUID, input *profileInput) *profile.UserProfile {
	conditions := make([]profile.MedicalCondition, 0, len(input.MedicalConditions))
	for _, raw := range input.MedicalConditions {
		normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), " ", "_")
		if normalized != "" {
			conditions = append(conditions, profile.MedicalCondition(normalized))
		}
	}
	return &profile.UserProfile{
		ID:          userID,
		Name:        input.Name,
		Age:         input.Age,
		Sex:         profile.ParseSex(input.Sex),
		WeightKg:    input.WeightKg,
		HeightCm:    input.HeightCm,
		Activity:    profile.ParseActivityLevel(input.ActivityLevel),
		FitnessGoal: input.FitnessGoal,
		Allergies:   input.Allergies,
		Conditions:  conditions,
		Preferences: profile.Preferences{
			Cuisine:    input.Preferences.Cuisine,
			SpiceLevel: input.Preferences.SpiceLevel,
		},
	}
}

func printResult(result *inbound.PlanResult) {
	rec := result.FinalRecipe
	facts := rec.Nutrition()

	fmt.Printf("=== %s ===\n", rec.DishName())
	if rec.Cuisine() != "" {
		fmt.Printf("Cuisine: %s | Prep: %d min\n", rec.Cuisine(), rec.PrepTimeMinutes())
	}
	fmt.Printf("Goal: %s | Target: %d kcal (%d%% P / %d%% C / %d%% F)\n\n",
		result.Goal, result.CalorieTarget,
		result.Macros.Protein(), result.Macros.Carbs(), result.Macros.Fat())

	fmt.Println("Ingredients:")
	for _, ing := range rec.Ingredients() {
		fmt.Printf("  - %s\n", ing.String())
	}
	fmt.Println("\nSteps:")
	for i, step := range rec.Steps() {
		fmt.Printf("  %d. %s\n", i+1, step)
	}

	fmt.Printf("\nNutrition: %d kcal, %.1fg protein, %.1fg carbs, %.1fg fat\n",
		facts.Calories(), facts.ProteinG(), facts.CarbsG(), facts.FatG())

	if result.BestEffort {
		fmt.Println("\nNote: this is a best-effort recommendation. Validation notes:")
		for _, line := range strings.Split(result.Validation.Notes(), "\n") {
			fmt.Printf("  %s\n", line)
		}
	}
	for _, sub := range result.Substitutions {
		fmt.Printf("Substitution: %s -> %s (%s)\n", sub.Original, sub.Substitute, sub.Reason)
	}

	fmt.Printf("\n%s\n\n", result.Explanation)
}

// promptRating reads a 1-5 rating and optional comment from the terminal.
// An empty line skips feedback.
func promptRating(in *os.File) (recipe.Rating, bool) {
	reader := bufio.NewReader(in)

	fmt.Print("Rate this meal 1-5 (enter to skip): ")
	line, err := reader.ReadString('\n')
	if err != nil {
		return recipe.Rating{}, false
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return recipe.Rating{}, false
	}
	value, err := strconv.Atoi(line)
	if err != nil || value < 1 || value > 5 {
		fmt.Println("Invalid rating, skipping feedback.")
		return recipe.Rating{}, false
	}

	fmt.Print("Any comments? (enter to skip): ")
	comment, err := reader.ReadString('\n')
	if err != nil {
		comment = ""
	}

	return recipe.Rating{Value: value, Comment: strings.TrimSpace(comment)}, true
}
