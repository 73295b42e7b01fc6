package catalog

// DemoTree is the content served the first time a store is opened.
func DemoTree() Tree {
	return Tree{
		{
			ID:        "t1",
			Title:     "Basisvaardigheden",
			IsEnabled: true,
			Order:     1,
			Icon:      &Icon{Kind: IconSymbolic, Name: "BookOpen"},
			Lessons: []Lesson{
				{
					ID:            "l1",
					Title:         "Word Documenten",
					IsEnabled:     true,
					Order:         1,
					LearningGoals: "Leer hoe je een brief schrijft en opmaakt in Word.",
					StartURL:      "https://office.com",
					InfoURL:       "https://support.microsoft.com/word",
					Icon:          &Icon{Kind: IconSymbolic, Name: "NotebookText"},
					Parts: []Part{
						{
							ID:            "p1",
							Title:         "Brief Indeling",
							Description:   "De standaard opbouw van een zakelijke brief.",
							LearningGoals: "Een zakelijke brief bestaat uit: Afzender, Datum, Geadresseerde, Onderwerp, Aanhef, Kern, Slot, Ondertekening.",
							StartURL:      "https://support.microsoft.com",
							IsEnabled:     true,
							Order:         1,
							Icon:          &Icon{Kind: IconSymbolic, Name: "ListChecks"},
						},
						{
							ID:            "p2",
							Title:         "Opmaak Oefening",
							Description:   "Oefen met vette tekst en koppen.",
							LearningGoals: "In dit onderdeel leer je koppen (H1, H2) en dikgedrukte tekst gebruiken.",
							StartURL:      "https://google.com",
							IsEnabled:     true,
							Order:         2,
							Icon:          &Icon{Kind: IconSymbolic, Name: "PlayCircle"},
						},
					},
				},
			},
		},
		{
			ID:            "t2",
			Title:         "Digitale Veiligheid",
			IsEnabled:     false,
			DateAvailable: "2025-09-01",
			Order:         2,
			Icon:          &Icon{Kind: IconSymbolic, Name: "Shield"},
			Lessons:       []Lesson{},
		},
	}
}
