/*
Package ddb implements the storage backend contract on an AWS DynamoDB
table.

The table needs a single string partition key named "K"; serialized entity
records are marshalled into the remaining item attributes with the
feature/dynamodb/attributevalue package.  Transactions and secondary indexes
are provided by the datastore layer above, so the table itself needs no
GSIs and no condition expressions.

	client, err := ddb.NewClient(accessKey, secretKey, region)
	backend := ddb.New(client, "mud-entities")
	store := datastore.New("players", backend)

Keys() issues a paged Scan projecting only the key attribute; it is used by
BuildIndexes at startup and by un-indexed queries, both of which accept a
full-table pass.
*/
package ddb
