package validators

import "go.mongodb.org/mongo-driver/bson"

// intervalSchema matches the half-open minutes-from-midnight interval
// embedded in bookings and hold leases.
var intervalSchema = bson.M{
	"bsonType": "object",
	"required": []string{"start_min", "end_min"},
	"properties": bson.M{
		"start_min": bson.M{
			"bsonType": "int",
			"minimum":  0,
			"maximum":  1439,
		},
		"end_min": bson.M{
			"bsonType": "int",
			"minimum":  1,
			"maximum":  1440,
		},
	},
}

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"store_id",
			"menu_id",
			"date",
			"interval",
			"status",
			"total_price",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"store_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"resource_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"menu_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"option_ids": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "string",
				},
			},

			"customer_id": bson.M{
				"bsonType": "string",
			},

			"date": bson.M{
				"bsonType": "string",
				"pattern":  datePattern,
			},

			"interval": intervalSchema,

			"status": bson.M{
				"enum": []string{"pending", "confirmed", "cancelled", "completed", "no_show"},
			},

			"total_price": bson.M{
				"bsonType": "long",
				"minimum":  0,
			},

			"pricing": bson.M{
				"bsonType": "object",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
