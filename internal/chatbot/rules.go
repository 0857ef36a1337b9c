package chatbot

import (
	"math/rand"
	"strings"
)

type rule struct {
	keywords  []string
	responses []string
}

var chatbotRules = []rule{
	{
		keywords: []string{"price", "cost", "expensive", "cheap", "affordable"},
		responses: []string{
			"You can find the price of each bike on its detail page. We also have an EMI calculator to help you plan your purchase.",
			"Prices vary by model and brand. Check the bike details page for ex-showroom prices and use our on-road price calculator for the final cost.",
		},
	},
	{
		keywords: []string{"test ride", "test", "ride", "booking"},
		responses: []string{
			"You can book a test ride by visiting the bike detail page and clicking \"Book Test Ride\". Select your preferred date, time, and dealer location.",
			"Test rides are available at authorized dealers. Simply select a bike, choose a dealer, and book your preferred slot.",
		},
	},
	{
		keywords: []string{"dealer", "showroom", "location", "where", "near"},
		responses: []string{
			"You can find dealers and service centers on our map. Use the dealer locator to find the nearest one to you.",
			"Check our dealer locator map to find authorized dealers and service centers in your area.",
		},
	},
	{
		keywords: []string{"compare", "comparison", "difference", "vs"},
		responses: []string{
			"You can compare multiple bikes side by side. Select bikes you want to compare and view their specifications together.",
			"Use our bike comparison tool to see differences between models. Add bikes to comparison from the bike listing page.",
		},
	},
	{
		keywords: []string{"specification", "specs", "features", "details"},
		responses: []string{
			"Each bike has detailed specifications including engine, dimensions, performance, brakes, and suspension. Check the bike detail page for complete information.",
			"You can find comprehensive specifications for each bike including engine details, performance metrics, and technical features.",
		},
	},
	{
		keywords: []string{"emi", "loan", "finance", "installment"},
		responses: []string{
			"Use our EMI calculator to estimate your monthly installments. Enter the bike price, down payment, interest rate, and loan tenure.",
			"We have an EMI calculator tool that helps you calculate monthly installments based on your loan amount and tenure.",
		},
	},
	{
		keywords: []string{"service", "maintenance", "repair", "spare parts"},
		responses: []string{
			"You can find service centers on our map. Dealers also provide information about spare parts availability and pricing.",
			"Service centers are marked on our map. Contact them directly for service bookings and spare parts inquiries.",
		},
	},
	{
		keywords: []string{"360", "view", "virtual", "tour"},
		responses: []string{
			"Many bikes have a 360° view feature. Click on the 360° view button on the bike detail page to explore the bike virtually.",
			"You can view bikes in 360° on their detail pages. This gives you a complete view of the bike from all angles.",
		},
	},
	{
		keywords: []string{"hello", "hi", "hey", "greetings"},
		responses: []string{
			"Hello! How can I help you with your bike search today?",
			"Hi there! I can help you with bike information, bookings, dealers, and more. What would you like to know?",
		},
	},
	{
		keywords: []string{"help", "support", "assistance"},
		responses: []string{
			"I can help you with bike information, test ride bookings, dealer locations, EMI calculations, and bike comparisons. What do you need?",
			"I'm here to help! I can assist with finding bikes, booking test rides, locating dealers, and answering questions about our services.",
		},
	},
}

const defaultFallback = "I can help you with bike information, test ride bookings, dealer locations, and more. Could you please rephrase your question? You can ask about bike specifications, compare bikes, or get recommendations."

// Suggestions returns the canned starter questions shown in the chat widget.
func Suggestions() []string {
	return []string{
		"How do I book a test ride?",
		"Where can I find dealers near me?",
		"What is the price of this bike?",
		"Compare KTM vs Honda bikes",
		"Which bike has the best mileage?",
		"Show me specs of Yamaha R15",
		"What is the difference between two bikes?",
		"Recommend affordable bikes",
		"How do I calculate EMI?",
		"Where are service centers located?",
	}
}

// matchRule returns a canned response for the first rule whose keyword
// appears in the message, or "" if no rule matches.
func matchRule(message string) string {
	lower := strings.ToLower(message)
	for _, r := range chatbotRules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.responses[rand.Intn(len(r.responses))]
			}
		}
	}
	return ""
}
