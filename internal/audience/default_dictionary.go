package audience

// Age group names used by the default dictionary.
const (
	AgeUnder18 = "under_18"
	Age18to24  = "18-24"
	Age25to34  = "25-34"
	Age35to44  = "35-44"
	Age45to54  = "45-54"
	Age55Plus  = "55+"
)

// DefaultDictionaryConfig returns the built-in keyword, age and city tables.
func DefaultDictionaryConfig() DictionaryConfig {
	return DictionaryConfig{
		Categories:       DefaultCategories(),
		AgeGroups:        DefaultAgeGroups(),
		Capitals:         []string{"москва", "санкт-петербург", "минск", "киев", "астана"},
		NotableCities:    defaultNotableCities(),
		MillionCityCount: 15,
	}
}

// DefaultDictionary builds the built-in dictionary.
func DefaultDictionary() *Dictionary {
	d, err := NewDictionary(DefaultDictionaryConfig())
	if err != nil {
		panic("audience: invalid default dictionary: " + err.Error())
	}
	return d
}

// DefaultAgeGroups returns the standard age intervals.
func DefaultAgeGroups() []AgeGroup {
	return []AgeGroup{
		{Name: AgeUnder18, Min: 0, Max: 18},
		{Name: Age18to24, Min: 18, Max: 25},
		{Name: Age25to34, Min: 25, Max: 35},
		{Name: Age35to44, Min: 35, Max: 45},
		{Name: Age45to54, Min: 45, Max: 55},
		{Name: Age55Plus, Min: 55, Max: OpenEnded},
	}
}

// DefaultCategories returns the interest categories with their keywords.
func DefaultCategories() []Category {
	return []Category{
		{Name: "technology", Keywords: []string{
			"программирование", "it", "код", "python", "java", "javascript", "разработка",
			"компьютер", "айти", "гаджеты", "технологии", "техника", "смартфон", "ноутбук",
		}},
		{Name: "education", Keywords: []string{
			"учеба", "образование", "курсы", "школа", "университет", "вуз", "студент",
			"обучение", "знания", "наука", "исследование", "лаборатория",
		}},
		{Name: "sport", Keywords: []string{
			"спорт", "футбол", "хоккей", "баскетбол", "тренировка", "фитнес", "зал", "бег",
			"йога", "плавание", "кроссфит", "бокс", "единоборства",
		}},
		{Name: "art", Keywords: []string{
			"искусство", "живопись", "музыка", "кино", "театр", "танцы", "фотография",
			"дизайн", "арт", "творчество", "рисование", "пение",
		}},
		{Name: "business", Keywords: []string{
			"бизнес", "стартап", "предпринимательство", "инвестиции", "финансы", "маркетинг",
			"продажи", "управление", "компания", "проект", "деньги", "экономика",
		}},
		{Name: "travel", Keywords: []string{
			"путешествия", "туризм", "отдых", "отпуск", "страны", "города", "поездки",
			"авиабилеты", "отели", "курорты", "пляж", "горы",
		}},
		{Name: "fashion", Keywords: []string{
			"мода", "стиль", "одежда", "обувь", "косметика", "красота", "прическа", "макияж",
			"шопинг", "бренды", "тренды", "луки",
		}},
		{Name: "auto", Keywords: []string{
			"авто", "машина", "автомобиль", "водитель", "дорога", "тюнинг", "мотоцикл",
			"бензин", "ремонт", "запчасти",
		}},
		{Name: "cooking", Keywords: []string{
			"кулинария", "готовка", "рецепты", "еда", "кухня", "повар", "блюда", "десерты",
			"рестораны", "напитки", "кофе", "чай",
		}},
		{Name: "health", Keywords: []string{
			"здоровье", "медицина", "врач", "больница", "лечение", "диета", "витамины",
			"тренировка", "йога", "медитация", "психология",
		}},
		{Name: "gaming", Keywords: []string{
			"игры", "гейминг", "игрок", "консоль", "ps", "xbox", "steam", "киберспорт",
			"стрим", "twitch", "дота", "кспоп", "майнкрафт",
		}},
		{Name: "books", Keywords: []string{
			"книги", "чтение", "литература", "роман", "фэнтези", "детектив", "поэзия",
			"писатель", "библиотека", "аудиокнига",
		}},
		{Name: "tv_series", Keywords: []string{
			"сериалы", "фильмы", "кино", "нетфликс", "hdrezka", "тв", "актеры", "режиссер",
			"премьера", "обзор",
		}},
		{Name: "music", Keywords: []string{
			"музыка", "плейлист", "концерт", "альбом", "исполнитель", "группа", "рок",
			"поп", "хип-хоп", "джаз", "классика",
		}},
		{Name: "hobby", Keywords: []string{
			"хобби", "рукоделие", "коллекционирование", "садоводство", "рыбалка", "охота",
			"вышивка", "вязание", "моделирование", "пазлы",
		}},
	}
}

// defaultNotableCities lists large Russian cities; the first 15 are million-cities.
func defaultNotableCities() []string {
	return []string{
		"москва", "санкт-петербург", "новосибирск", "екатеринбург", "нижний новгород",
		"казань", "челябинск", "омск", "самара", "ростов-на-дону", "уфа", "красноярск",
		"пермь", "воронеж", "волгоград", "краснодар", "саратов", "тюмень", "тольятти",
		"ижевск", "барнаул", "ульяновск", "иркутск", "хабаровск", "ярославль", "владивосток",
		"махачкала", "томск", "оренбург", "кемерово", "новокузнецк", "рязань", "астрахань",
		"пенза", "липецк", "киров", "чебоксары", "калининград", "тула", "ставрополь",
		"курск", "сочи", "тверь", "магнитогорск", "сургут", "волжский", "салават",
	}
}
