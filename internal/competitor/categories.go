package competitor

import (
	"github.com/Veraticus/audience-scope/internal/audience"
)

// GroupCategory is a community topic. Query is the search phrase used to look
// up other groups on the same topic.
type GroupCategory struct {
	Name     string
	Query    string
	Keywords []string
}

// DefaultGroupCategories returns the built-in community topics.
func DefaultGroupCategories() []GroupCategory {
	return []GroupCategory{
		{Name: "technology", Query: "технологии", Keywords: []string{"it", "программирование", "разработка", "технологии", "гаджеты", "софт"}},
		{Name: "education", Query: "образование", Keywords: []string{"образование", "курсы", "обучение", "школа", "университет", "студент"}},
		{Name: "business", Query: "бизнес", Keywords: []string{"бизнес", "стартап", "предпринимательство", "маркетинг", "продажи"}},
		{Name: "entertainment", Query: "развлечения", Keywords: []string{"развлечения", "юмор", "приколы", "мемы", "смешно"}},
		{Name: "sport", Query: "спорт", Keywords: []string{"спорт", "фитнес", "тренировки", "футбол", "хоккей"}},
		{Name: "beauty", Query: "красота", Keywords: []string{"красота", "мода", "стиль", "косметика", "уход"}},
		{Name: "health", Query: "здоровье", Keywords: []string{"здоровье", "медицина", "диета", "спорт", "фитнес"}},
		{Name: "travel", Query: "путешествия", Keywords: []string{"путешествия", "туризм", "отдых", "страны", "города"}},
		{Name: "food", Query: "еда", Keywords: []string{"еда", "рецепты", "кулинария", "готовка", "рестораны"}},
		{Name: "auto", Query: "авто", Keywords: []string{"авто", "машины", "автомобили", "водитель", "дорога"}},
	}
}

// Categorizer assigns topics to groups by keyword substring match.
type Categorizer struct {
	dict    *audience.Dictionary
	queries map[string]string
}

// NewCategorizer builds a categorizer over categories.
func NewCategorizer(categories []GroupCategory) (*Categorizer, error) {
	cfg := audience.DefaultDictionaryConfig()
	cfg.Categories = make([]audience.Category, len(categories))
	queries := make(map[string]string, len(categories))
	for i, c := range categories {
		cfg.Categories[i] = audience.Category{Name: c.Name, Keywords: c.Keywords}
		queries[c.Name] = c.Query
		if queries[c.Name] == "" {
			queries[c.Name] = c.Name
		}
	}

	dict, err := audience.NewDictionary(cfg)
	if err != nil {
		return nil, err
	}
	return &Categorizer{dict: dict, queries: queries}, nil
}

// DefaultCategorizer returns a categorizer over DefaultGroupCategories.
func DefaultCategorizer() *Categorizer {
	c, err := NewCategorizer(DefaultGroupCategories())
	if err != nil {
		panic("competitor: invalid default group categories: " + err.Error())
	}
	return c
}

// Categorize returns the topics of a group in table order.
func (c *Categorizer) Categorize(name, description string) []string {
	return c.dict.Categorize(name + " " + description)
}

// Query returns the search phrase for a topic.
func (c *Categorizer) Query(category string) string {
	return c.queries[category]
}
