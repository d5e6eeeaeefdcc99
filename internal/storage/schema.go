package storage

// SchemaSQL creates the tables if they are missing. Safe to run on every start.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS users (
    id       serial PRIMARY KEY,
    username text NOT NULL UNIQUE,
    password text NOT NULL
);

CREATE TABLE IF NOT EXISTS documents (
    id                serial PRIMARY KEY,
    file_name         text NOT NULL,
    file_type         text NOT NULL,
    file_size         integer NOT NULL,
    uploaded_at       timestamp DEFAULT now() NOT NULL,
    processed         boolean DEFAULT false NOT NULL,
    title             text,
    agency            text,
    rfp_number        text,
    due_date          text,
    estimated_value   text,
    contract_term     text,
    contact_person    text,
    opportunity_score integer,
    key_dates         jsonb,
    requirements      jsonb,
    ai_analysis       jsonb,
    full_text         text
);
`
