package chatbot

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/bikehub/bikehub-backend/internal/models"
	"github.com/bikehub/bikehub-backend/internal/services"
)

// Answer kinds reported alongside each response.
const (
	KindComparison     = "comparison"
	KindSpecs          = "specs"
	KindRecommendation = "recommendation"
	KindRule           = "rule"
	KindFallback       = "fallback"
)

const recommendationLimit = 5

// Responder answers chat messages. Comparison and spec questions are
// grounded in the catalog, everything else falls back to canned rules.
type Responder struct {
	Catalog Catalog
}

func NewResponder(catalog Catalog) *Responder {
	return &Responder{Catalog: catalog}
}

// Respond returns the answer text and its kind. Database failures are
// logged and degrade to the next answer tier instead of erroring out.
func (r *Responder) Respond(ctx context.Context, message string) (string, string) {
	if answer, ok := r.tryComparison(ctx, message); ok {
		return answer, KindComparison
	}
	if answer, ok := r.trySpecs(ctx, message); ok {
		return answer, KindSpecs
	}
	if answer, ok := r.tryRecommendation(ctx, message); ok {
		return answer, KindRecommendation
	}
	if answer := matchRule(message); answer != "" {
		return answer, KindRule
	}
	return defaultFallback, KindFallback
}

func (r *Responder) tryComparison(ctx context.Context, message string) (string, bool) {
	first, second := extractComparisonPair(message)
	if first == "" {
		return "", false
	}

	bike1, err := r.Catalog.FindByNameOrBrand(ctx, first)
	if err != nil {
		log.Printf("Error comparing bikes: %v", err)
		return "", false
	}
	bike2, err := r.Catalog.FindByNameOrBrand(ctx, second)
	if err != nil {
		log.Printf("Error comparing bikes: %v", err)
		return "", false
	}

	switch {
	case bike1 != nil && bike2 != nil:
		return compareBikes(bike1, bike2), true
	case bike1 != nil || bike2 != nil:
		return "I found one bike but couldn't find the other. Please check the bike names and try again.", true
	default:
		return "I couldn't find those bikes. Please check the bike names and try again. You can search for bikes on our bikes page.", true
	}
}

func (r *Responder) trySpecs(ctx context.Context, message string) (string, bool) {
	if !hasSpecKeyword(message) {
		return "", false
	}
	name := extractBikeName(message)
	if name == "" {
		return "", false
	}

	bike, err := r.Catalog.FindByNameOrBrand(ctx, name)
	if err != nil {
		log.Printf("Error fetching bike: %v", err)
		return "", false
	}
	if bike != nil {
		return formatSpecs(bike), true
	}

	// No exact match, try the first word for a "did you mean" list.
	firstWord := strings.Fields(name)[0]
	similar, err := r.Catalog.FindSimilar(ctx, firstWord, 3)
	if err != nil {
		log.Printf("Error fetching similar bikes: %v", err)
		similar = nil
	}
	if len(similar) > 0 {
		names := make([]string, len(similar))
		for i, b := range similar {
			names[i] = b.Name
		}
		return fmt.Sprintf("I couldn't find %q. Did you mean: %s?", name, strings.Join(names, ", ")), true
	}
	return fmt.Sprintf("I couldn't find %q. Please check the bike name and try again. You can browse all bikes on our bikes page.", name), true
}

func (r *Responder) tryRecommendation(ctx context.Context, message string) (string, bool) {
	lower := strings.ToLower(message)
	if !strings.Contains(lower, "better") && !strings.Contains(lower, "best") && !strings.Contains(lower, "recommend") {
		return "", false
	}

	if strings.Contains(lower, "mileage") || strings.Contains(lower, "fuel") {
		if answer, ok := r.mileageRecommendation(ctx); ok {
			return answer, true
		}
	}
	if strings.Contains(lower, "price") || strings.Contains(lower, "cheap") || strings.Contains(lower, "affordable") {
		if answer, ok := r.priceRecommendation(ctx); ok {
			return answer, true
		}
	}
	if strings.Contains(lower, "power") || strings.Contains(lower, "speed") || strings.Contains(lower, "performance") {
		if answer, ok := r.powerRecommendation(ctx); ok {
			return answer, true
		}
	}
	return "", false
}

func (r *Responder) mileageRecommendation(ctx context.Context) (string, bool) {
	if cached, err := services.GetCachedChatbotAnswer(ctx, "mileage"); err == nil && cached != "" {
		return cached, true
	}

	bikes, err := r.Catalog.All(ctx)
	if err != nil {
		log.Printf("Error fetching bikes by mileage: %v", err)
		return "", false
	}

	type ranked struct {
		bike    models.Bike
		mileage float64
	}
	var withMileage []ranked
	for _, b := range bikes {
		specs := b.Specs()
		if v, ok := parseLeadingFloat(specs.Performance.Mileage); ok {
			withMileage = append(withMileage, ranked{bike: b, mileage: v})
		}
	}
	if len(withMileage) == 0 {
		return "", false
	}

	sort.SliceStable(withMileage, func(i, j int) bool {
		return withMileage[i].mileage > withMileage[j].mileage
	})
	if len(withMileage) > recommendationLimit {
		withMileage = withMileage[:recommendationLimit]
	}

	parts := make([]string, len(withMileage))
	for i, rb := range withMileage {
		parts[i] = fmt.Sprintf("%s (%s)", rb.bike.Name, rb.bike.Specs().Performance.Mileage)
	}
	answer := fmt.Sprintf("For best mileage, I recommend: %s. Check their detail pages for complete specifications.", strings.Join(parts, ", "))

	if err := services.CacheChatbotAnswer(ctx, "mileage", answer); err != nil {
		log.Printf("Error caching chatbot answer: %v", err)
	}
	return answer, true
}

func (r *Responder) priceRecommendation(ctx context.Context) (string, bool) {
	if cached, err := services.GetCachedChatbotAnswer(ctx, "affordable"); err == nil && cached != "" {
		return cached, true
	}

	bikes, err := r.Catalog.Cheapest(ctx, recommendationLimit)
	if err != nil {
		log.Printf("Error fetching bikes by price: %v", err)
		return "", false
	}
	if len(bikes) == 0 {
		return "", false
	}

	parts := make([]string, len(bikes))
	for i, b := range bikes {
		parts[i] = fmt.Sprintf("%s (₹%s)", b.Name, formatAmount(b.Price))
	}
	answer := fmt.Sprintf("Most affordable bikes: %s. Check their detail pages for more information.", strings.Join(parts, ", "))

	if err := services.CacheChatbotAnswer(ctx, "affordable", answer); err != nil {
		log.Printf("Error caching chatbot answer: %v", err)
	}
	return answer, true
}

func (r *Responder) powerRecommendation(ctx context.Context) (string, bool) {
	if cached, err := services.GetCachedChatbotAnswer(ctx, "performance"); err == nil && cached != "" {
		return cached, true
	}

	bikes, err := r.Catalog.All(ctx)
	if err != nil {
		log.Printf("Error fetching bikes by power: %v", err)
		return "", false
	}

	var parts []string
	for _, b := range bikes {
		specs := b.Specs()
		if specs.Engine.MaxPower == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", b.Name, specs.Engine.MaxPower))
		if len(parts) == recommendationLimit {
			break
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	answer := fmt.Sprintf("For high performance, check out: %s. Visit their detail pages for complete specifications.", strings.Join(parts, ", "))

	if err := services.CacheChatbotAnswer(ctx, "performance", answer); err != nil {
		log.Printf("Error caching chatbot answer: %v", err)
	}
	return answer, true
}
