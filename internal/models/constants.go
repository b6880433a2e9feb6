package models

// Intent labels form a closed set; IntentError is only ever attached to the
// degraded reply, never produced by classification.
const (
	IntentMenuInquiry        = "menu_inquiry"
	IntentReservationRequest = "reservation_request"
	IntentHoursLocation      = "hours_location"
	IntentSpecialEvents      = "special_events"
	IntentGeneralInquiry     = "general_inquiry"
	IntentError              = "error"
)

// Intents lists the classifiable intents in priority order. Both classifier
// strategies walk this order so results are deterministic.
var Intents = []string{
	IntentMenuInquiry,
	IntentReservationRequest,
	IntentHoursLocation,
	IntentSpecialEvents,
	IntentGeneralInquiry,
}

// IntentKeywords drives the membership-test strategy: first intent whose
// keyword appears in the lowercased message wins.
var IntentKeywords = map[string][]string{
	IntentMenuInquiry:        {"vegetarian", "vegan", "gluten", "menu", "food", "dish", "eat"},
	IntentReservationRequest: {"reservation", "book", "table", "reserve", "booking"},
	IntentHoursLocation:      {"hour", "open", "close", "location", "address", "where", "when"},
	IntentSpecialEvents:      {"event", "special", "promotion", "offer", "deal", "discount"},
}

// IntentPatterns drives the pattern-count strategy: the intent with the
// strictly greatest number of matching patterns wins.
var IntentPatterns = map[string][]string{
	IntentMenuInquiry: {
		`menu`, `what.*serve`, `what.*have`, `what.*offer`, `what.*available`,
		`what.*special`, `what.*dish`, `what.*food`, `vegetarian`, `vegan`,
		`gluten-free`, `price`, `cost`, `how much`, `dietary`, `allergy`,
	},
	IntentReservationRequest: {
		`reservation`, `book`, `table`, `reserve`, `booking`, `when.*available`,
		`what.*time.*available`, `party.*size`, `how many.*people`,
		`special.*request`, `dietary.*requirement`,
	},
	IntentHoursLocation: {
		`hour`, `open`, `close`, `when.*open`, `when.*close`, `where.*located`,
		`address`, `location`, `directions`, `how.*get.*there`, `parking`,
		`transportation`,
	},
	IntentSpecialEvents: {
		`event`, `special`, `promotion`, `discount`, `offer`, `deal`,
		`happy hour`, `live music`, `entertainment`,
	},
	IntentGeneralInquiry: {
		`hi`, `hello`, `hey`, `help`, `what.*can.*do`, `how.*can.*help`,
		`tell.*me.*about`, `who.*are.*you`, `what.*are.*you`,
	},
}

// GreetingPatterns short-circuit retrieval for bare greetings; each pattern
// must match the whole trimmed, lowercased message.
var GreetingPatterns = []string{
	`^(hi|hello|hey|greetings|howdy)( there)?$`,
	`^good (morning|afternoon|evening)$`,
	`^(how are you( doing)?|what's up)$`,
	`^(who|what) are you$`,
	`^(tell me about yourself|introduce yourself)$`,
	`^(how do you work|what can you do)$`,
}

// SuggestedActionsByIntent is the static intent-to-affordance table; intents
// absent from it carry no suggested actions.
var SuggestedActionsByIntent = map[string][]SuggestedAction{
	IntentMenuInquiry: {
		{ActionType: "view_menu", Label: "View Full Menu", Value: "full_menu"},
		{ActionType: "filter_menu", Label: "Filter by Category", Value: "categories"},
	},
	IntentReservationRequest: {
		{ActionType: "make_reservation", Label: "Make Reservation", Value: "reservation_form"},
	},
	IntentHoursLocation: {
		{ActionType: "view_hours", Label: "View Opening Hours", Value: "hours"},
	},
}

// ApologyMessage is the fixed degraded reply used whenever the pipeline fails.
const ApologyMessage = "I'm sorry, I encountered an error processing your request."

// BasePromptTemplate is the fallback prompt for intents without a dedicated
// template. Placeholders are bound by the prompt builder.
const BasePromptTemplate = `You are a helpful restaurant assistant for {restaurant_name}.
Use the following context to answer the question. If you don't know the answer,
just say that you don't know, don't try to make up an answer.

Context: {context}

Question: {question}

Answer: `

// IntentPromptTemplates holds the intent-specific prompts.
var IntentPromptTemplates = map[string]string{
	IntentMenuInquiry: `You are a helpful restaurant assistant for {restaurant_name}.
The user is asking about the menu. Use the following context about our menu items
to provide a detailed and appetizing response. Include prices and highlight any
special features or dietary accommodations.

Context: {context}

Question: {question}

Answer: `,
	IntentReservationRequest: `You are a helpful restaurant assistant for {restaurant_name}.
The user wants to make a reservation. Use the following context about our
reservation policies and availability to help them. Be sure to ask for any
missing information needed for the reservation.

Context: {context}

Question: {question}

Answer: `,
	IntentHoursLocation: `You are a helpful restaurant assistant for {restaurant_name}.
The user is asking about our hours or location. Use the following context
to provide clear and accurate information about when we're open and where
to find us.

Context: {context}

Question: {question}

Answer: `,
}

// DefaultDemoResponses back the demo mode when no responses file is configured.
var DefaultDemoResponses = map[string]string{
	IntentMenuInquiry:        "Yes, we have several vegetarian options including our Bruschetta Classica, Caprese Salad, and Quattro Formaggi Pizza. Would you like to hear more details about any of these dishes?",
	IntentReservationRequest: "I'd be happy to help you with a reservation. Could you please provide the date, time, and number of guests?",
	IntentHoursLocation:      "We are located at 789 Gourmet Avenue, Flavor Town, CA 90210. Our hours are Monday-Thursday 11am-10pm, Friday-Saturday 11am-11pm, and Sunday 11am-9pm.",
	IntentSpecialEvents:      "We have a special Wine Wednesday event with half-price bottles of select wines. This Friday we also have a live jazz band performing from 7-9pm.",
	IntentGeneralInquiry:     "Thank you for your question. Our staff would be happy to assist you. Is there anything specific about our menu, hours, or specials that you'd like to know about?",
}
