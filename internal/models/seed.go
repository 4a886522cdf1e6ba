package models

func strPtr(s string) *string { return &s }

// ExampleProducts is the catalog inserted into an empty products table.
// The storefront also uses it as offline content when the API is down.
func ExampleProducts() []Product {
	return []Product{
		{ID: 1, Name: "Call of Duty: Modern Warfare", Description: "Tactical next-gen shooter with realistic graphics", Price: 59.99, Category: "Shooter / FPS", ImageURL: strPtr("https://image.api.playstation.com/vulcan/ap/rnd/202302/2718/ba706e54d68d10a0334529312681f8991d1dd9bf6fd46231.png")},
		{ID: 2, Name: "Final Fantasy XVI", Description: "Epic fantasy adventure with dynamic combat", Price: 69.99, Category: "RPG / Fantasía", ImageURL: strPtr("https://image.api.playstation.com/vulcan/ap/rnd/202212/0609/RsEwjXfWmvl3J2u65qgzqHvJ.png")},
		{ID: 3, Name: "FIFA 24", Description: "The most realistic football experience of the year", Price: 49.99, Category: "Deportes / Carreras", ImageURL: strPtr("https://image.api.playstation.com/vulcan/ap/rnd/202305/1210/1684a4434e5ceb5c10db17bc7ac32862a59b0e4dcdd46b3a.jpg")},
		{ID: 4, Name: "Minecraft Legends", Description: "Build, explore and survive in endless worlds", Price: 39.99, Category: "Estrategia / Simulación", ImageURL: strPtr("https://www.minecraft.net/content/dam/games/minecraft/key-art/legends-keyart.jpg")},
		{ID: 5, Name: "Resident Evil 4 Remake", Description: "Survival horror that keeps you on the edge", Price: 59.99, Category: "Terror / Suspenso", ImageURL: strPtr("https://image.api.playstation.com/vulcan/ap/rnd/202210/0706/EVWyZBz4gocTdKy00tVKGh3x.png")},
		{ID: 6, Name: "The Legend of Zelda: Tears of the Kingdom", Description: "The long-awaited sequel with new building mechanics", Price: 59.99, Category: "Aventura / Acción"},
		{ID: 7, Name: "Cyberpunk 2077 Ultimate Edition", Description: "Futuristic RPG with every expansion included", Price: 79.99, Category: "RPG / Ciencia Ficción"},
		{ID: 8, Name: "Grand Theft Auto VI", Description: "The newest entry in the best-selling saga", Price: 69.99, Category: "Acción / Aventura"},
		{ID: 9, Name: "Forza Horizon 5", Description: "Arcade racing across Mexico with stunning graphics", Price: 59.99, Category: "Deportes / Carreras"},
		{ID: 10, Name: "Halo Infinite", Description: "Master Chief returns in a new epic adventure", Price: 49.99, Category: "Shooter / FPS"},
	}
}
