package main

import connectHandler "github.com/renzotjpro/ecommerce-support/internal/adapter/connect"

func threshold(n int64) *int64 { return &n }

var sampleCatalog = []connectHandler.AddProductRequest{
	{ProductID: "PROD001", Name: "MacBook Pro 14-inch", Description: "Apple M2 Pro chip, 16GB RAM, 512GB SSD. Perfect for professional work and creative tasks.", Price: "1999.99", Category: "Electronics", StockQuantity: 25, LowStockThreshold: threshold(5)},
	{ProductID: "PROD002", Name: "iPhone 15 Pro", Description: "Latest iPhone with A17 Pro chip, 256GB storage, titanium design.", Price: "999.99", Category: "Electronics", StockQuantity: 50, LowStockThreshold: threshold(10)},
	{ProductID: "PROD003", Name: "AirPods Pro (2nd Gen)", Description: "Active noise cancellation, spatial audio, USB-C charging.", Price: "249.99", Category: "Electronics", StockQuantity: 3, LowStockThreshold: threshold(10)},
	{ProductID: "PROD004", Name: "Samsung 4K Smart TV 55-inch", Description: "Crystal UHD display, HDR support, built-in streaming apps.", Price: "599.99", Category: "Electronics", StockQuantity: 15, LowStockThreshold: threshold(5)},
	{ProductID: "PROD005", Name: "Sony WH-1000XM5 Headphones", Description: "Industry-leading noise cancellation, 30-hour battery life.", Price: "399.99", Category: "Electronics", StockQuantity: 0, LowStockThreshold: threshold(8)},

	{ProductID: "PROD101", Name: "Classic Denim Jacket", Description: "100% cotton denim, available in multiple sizes. Timeless style.", Price: "79.99", Category: "Clothing", StockQuantity: 100, LowStockThreshold: threshold(20)},
	{ProductID: "PROD102", Name: "Running Shoes - ProRun Elite", Description: "Lightweight, breathable, excellent cushioning for long runs.", Price: "129.99", Category: "Clothing", StockQuantity: 45, LowStockThreshold: threshold(15)},
	{ProductID: "PROD103", Name: "Wool Sweater", Description: "Merino wool, soft and warm, perfect for winter.", Price: "89.99", Category: "Clothing", StockQuantity: 8, LowStockThreshold: threshold(10)},

	{ProductID: "PROD201", Name: "Espresso Machine - BrewMaster Pro", Description: "15-bar pressure, milk frother included, makes cafe-quality coffee at home.", Price: "299.99", Category: "Home & Kitchen", StockQuantity: 20, LowStockThreshold: threshold(5)},
	{ProductID: "PROD202", Name: "Robot Vacuum Cleaner", Description: "Smart navigation, auto-charging, works with Alexa and Google Home.", Price: "349.99", Category: "Home & Kitchen", StockQuantity: 12, LowStockThreshold: threshold(5)},
	{ProductID: "PROD203", Name: "Non-Stick Cookware Set", Description: "10-piece set, dishwasher safe, includes pots, pans, and utensils.", Price: "149.99", Category: "Home & Kitchen", StockQuantity: 30, LowStockThreshold: threshold(10)},

	{ProductID: "PROD301", Name: "Yoga Mat Premium", Description: "6mm thick, non-slip surface, eco-friendly materials.", Price: "39.99", Category: "Sports & Outdoors", StockQuantity: 75, LowStockThreshold: threshold(20)},
	{ProductID: "PROD302", Name: "Camping Tent 4-Person", Description: "Waterproof, easy setup, includes carrying bag.", Price: "199.99", Category: "Sports & Outdoors", StockQuantity: 5, LowStockThreshold: threshold(8)},
	{ProductID: "PROD303", Name: "Hiking Backpack 40L", Description: "Durable, multiple compartments, ergonomic design.", Price: "89.99", Category: "Sports & Outdoors", StockQuantity: 18, LowStockThreshold: threshold(10)},

	{ProductID: "PROD401", Name: "The Art of AI Engineering", Description: "Comprehensive guide to building AI applications.", Price: "49.99", Category: "Books", StockQuantity: 40, LowStockThreshold: threshold(10)},
	{ProductID: "PROD402", Name: "Python for Automation", Description: "Learn to automate tasks with Python, from basics to advanced.", Price: "39.99", Category: "Books", StockQuantity: 60, LowStockThreshold: threshold(15)},
}
