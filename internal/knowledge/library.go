package knowledge

func libraryDefinition() Definition {
	return Definition{
		Name:     "library",
		Title:    "Library Management Database Schema",
		Database: "LibraryManagementDB",
		Domain:   "library management analytics",
		Dialect:  DialectSQLServer,
		Tables: []Table{
			{
				Name: "Authors",
				Columns: []Column{
					{Name: "AuthorID", Role: RoleIdentifier},
					{Name: "FirstName", Role: RoleText},
					{Name: "LastName", Role: RoleText},
					{Name: "BirthDate", Role: RoleDate},
					{Name: "Nationality", Role: RoleText},
					{Name: "Email", Role: RoleText},
					{Name: "CreatedDate", Role: RoleDate},
				},
			},
			{
				Name: "Categories",
				Columns: []Column{
					{Name: "CategoryID", Role: RoleIdentifier},
					{Name: "CategoryName", Role: RoleText},
					{Name: "Description", Role: RoleText},
					{Name: "CreatedDate", Role: RoleDate},
				},
			},
			{
				Name: "Books",
				Columns: []Column{
					{Name: "BookID", Role: RoleIdentifier},
					{Name: "Title", Role: RoleText},
					{Name: "ISBN", Role: RoleCode},
					{Name: "AuthorID", Role: RoleReference},
					{Name: "CategoryID", Role: RoleReference},
					{Name: "PublicationYear", Role: RoleDate},
					{Name: "Publisher", Role: RoleText},
					{Name: "TotalCopies", Role: RoleCount},
					{Name: "AvailableCopies", Role: RoleCount},
					{Name: "Price", Role: RoleAmount},
					{Name: "CreatedDate", Role: RoleDate},
				},
			},
			{
				Name: "Members",
				Columns: []Column{
					{Name: "MemberID", Role: RoleIdentifier},
					{Name: "FirstName", Role: RoleText},
					{Name: "LastName", Role: RoleText},
					{Name: "Email", Role: RoleText},
					{Name: "Phone", Role: RoleText},
					{Name: "Address", Role: RoleText},
					{Name: "JoinDate", Role: RoleDate},
					{Name: "MembershipType", Role: RoleCode},
					{Name: "IsActive", Role: RoleFlag, Description: "1 for active members"},
					{Name: "CreatedDate", Role: RoleDate},
				},
			},
			{
				Name: "BorrowingRecords",
				Columns: []Column{
					{Name: "RecordID", Role: RoleIdentifier},
					{Name: "MemberID", Role: RoleReference},
					{Name: "BookID", Role: RoleReference},
					{Name: "BorrowDate", Role: RoleDate},
					{Name: "DueDate", Role: RoleDate},
					{Name: "ReturnDate", Role: RoleDate},
					{Name: "Fine", Role: RoleAmount},
					{Name: "Status", Role: RoleCode},
					{Name: "CreatedDate", Role: RoleDate},
				},
			},
		},
		Relationships: []Relationship{
			{FromTable: "Books", FromColumn: "AuthorID", ToTable: "Authors", ToColumn: "AuthorID"},
			{FromTable: "Books", FromColumn: "CategoryID", ToTable: "Categories", ToColumn: "CategoryID"},
			{FromTable: "BorrowingRecords", FromColumn: "MemberID", ToTable: "Members", ToColumn: "MemberID"},
			{FromTable: "BorrowingRecords", FromColumn: "BookID", ToTable: "Books", ToColumn: "BookID"},
		},
		CodeTables: []CodeTable{
			{
				Name:   "Borrowing Status",
				Column: "BorrowingRecords.Status",
				Codes: []Code{
					{Code: "Borrowed", Label: "Currently on loan"},
					{Code: "Returned", Label: "Returned to the library"},
					{Code: "Overdue", Label: "Past DueDate and not returned"},
				},
			},
		},
		Rules: []string{
			"Focus on analytics and insights for directors and policy makers",
		},
		Examples: []string{
			"Show me monthly borrowing trends",
			"Which books are most popular?",
			"What's the average fine amount?",
			"Show member demographics",
			"List overdue books with member details",
		},
		QuickStats: []QuickStat{
			{Label: "Total Books", SQL: "SELECT COUNT(*) AS TotalBooks FROM Books"},
			{Label: "Active Members", SQL: "SELECT COUNT(*) AS ActiveMembers FROM Members WHERE IsActive = 1"},
			{Label: "Currently Borrowed", SQL: "SELECT COUNT(*) AS BorrowedBooks FROM BorrowingRecords WHERE Status = 'Borrowed'"},
			{Label: "Overdue Books", SQL: "SELECT COUNT(*) AS OverdueBooks FROM BorrowingRecords WHERE Status = 'Overdue'"},
			{Label: "Total Fines", SQL: "SELECT SUM(Fine) AS TotalFines FROM BorrowingRecords WHERE Fine > 0"},
		},
	}
}
