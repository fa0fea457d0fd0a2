package validators

import "go.mongodb.org/mongo-driver/bson"

var ResourceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"store_id",
			"name",
			"type",
			"working_hours",
			"is_active",
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

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"type": bson.M{
				"enum": []string{"staff", "room", "equipment", "vehicle"},
			},

			"working_hours": bson.M{
				"bsonType":             "object",
				"additionalProperties": dayHoursSchema,
			},

			"hourly_rate_diff": bson.M{
				"bsonType": "long",
			},

			"nomination_fee": bson.M{
				"bsonType": "long",
				"minimum":  0,
			},

			"is_active": bson.M{
				"bsonType": "bool",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
