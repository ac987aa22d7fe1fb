package tasksupply

import "github.com/vigil-labs/vigil/internal/synapse"

// Built-in fallback lists, served when the oracle cannot produce a valid
// list after the retry budget is spent.

var defaultTextThemes = []string{
	"The ethics of artificial intelligence",
	"Lost civilizations",
	"The future of work",
	"Ocean exploration",
	"Memory and identity",
	"The physics of time",
	"Urban design",
	"The history of mathematics",
	"Language and thought",
	"Renewable energy",
	"The philosophy of science",
	"Space colonization",
}

var defaultTextQuestions = []string{
	"What defines consciousness in machines?",
	"How did ancient trade routes shape modern borders?",
	"Can cities be designed to eliminate loneliness?",
	"What would mathematics look like without zero?",
	"How does language constrain scientific discovery?",
	"Is deep-sea mining worth its ecological cost?",
	"What makes a memory trustworthy?",
	"Could fusion power arrive too late to matter?",
	"How should settlers govern the first Mars colony?",
	"Why do some civilizations vanish without record?",
}

var defaultImageThemes = []string{
	"Bioluminescent forests",
	"Forgotten machinery",
	"Desert rainfall",
	"Floating markets",
	"Arctic twilight",
	"Clockwork gardens",
	"Submerged cities",
	"Mountain monasteries",
	"Paper architecture",
	"Storm chasing",
}

var defaultImageQuestions = []string{
	"A lighthouse keeper's room lit only by aurora through the window",
	"An overgrown subway station reclaimed by a glowing forest",
	"A caravan of traders crossing a mirror-flat salt lake at dawn",
	"A library carved into a living glacier, shelves of ice",
	"A rooftop greenhouse above a rain-soaked neon city",
	"A windmill farm on a floating island drifting through clouds",
	"An ancient observatory aligned with a comet's return",
	"A tidepool reflecting a sky full of unfamiliar constellations",
}

var defaultEmbeddingsThemes = []string{
	"Plate tectonics",
	"The printing press",
	"Coral reef ecosystems",
	"The silk road",
	"Photosynthesis",
	"The human genome",
	"Monsoon climates",
	"The industrial revolution",
}

var defaultEmbeddingsPassages = []string{
	"Plate tectonics describes the large-scale motion of the lithospheric plates that make up Earth's outer shell. The theory explains earthquakes, volcanic activity, and the formation of mountain ranges at plate boundaries.",
	"The printing press, introduced to Europe by Johannes Gutenberg around 1440, mechanized the production of books. Its spread drove a rapid increase in literacy and the circulation of ideas across the continent.",
	"Coral reefs are underwater ecosystems built by colonies of reef-building corals. Although they cover less than one percent of the ocean floor, they support roughly a quarter of all marine species.",
	"The Silk Road was a network of trade routes connecting East Asia with the Mediterranean world. Beyond silk and spices, it carried technologies, religions, and diseases between distant civilizations.",
	"Photosynthesis is the process by which plants, algae, and some bacteria convert light energy into chemical energy. The oxygen released as a by-product transformed Earth's early atmosphere.",
	"The Human Genome Project, completed in 2003, produced the first full sequence of human DNA. Its reference map underpins modern genetics, from disease research to ancestry analysis.",
	"Monsoon climates are defined by a seasonal reversal of prevailing winds that brings pronounced wet and dry periods. Agriculture across South and Southeast Asia is timed around the summer rains.",
	"The Industrial Revolution began in late eighteenth-century Britain with the mechanization of textile production. Steam power and factory organization reshaped economies, cities, and daily life.",
}

func defaultList(k queueKey) []string {
	var src []string
	switch {
	case k.Category == synapse.CategoryText && k.Kind == KindThemes:
		src = defaultTextThemes
	case k.Category == synapse.CategoryText && k.Kind == KindQuestions:
		src = defaultTextQuestions
	case k.Category == synapse.CategoryImage && k.Kind == KindThemes:
		src = defaultImageThemes
	case k.Category == synapse.CategoryImage && k.Kind == KindQuestions:
		src = defaultImageQuestions
	case k.Category == synapse.CategoryEmbeddings && k.Kind == KindThemes:
		src = defaultEmbeddingsThemes
	case k.Category == synapse.CategoryEmbeddings && k.Kind == KindQuestions:
		src = defaultEmbeddingsPassages
	}

	out := make([]string, len(src))
	copy(out, src)
	return out
}
