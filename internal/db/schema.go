package db

// SchemaSQL contains the database schema initialization SQL.
const SchemaSQL = `
    -- ==========================================================================
    -- VEHICLE TABLE (the user's fleet)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS vehicle SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS vin ON vehicle TYPE string;
    DEFINE FIELD IF NOT EXISTS model ON vehicle TYPE string;
    DEFINE FIELD IF NOT EXISTS image_url ON vehicle TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS created ON vehicle TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS vehicle_vin ON vehicle FIELDS vin UNIQUE;

    -- ==========================================================================
    -- VEHICLE DETAILS TABLE (specification sheet, keyed by VIN)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS vehicle_details SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS vin ON vehicle_details TYPE string;
    DEFINE FIELD IF NOT EXISTS model ON vehicle_details TYPE string;
    DEFINE FIELD IF NOT EXISTS image_url ON vehicle_details TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS software_version ON vehicle_details TYPE string;
    DEFINE FIELD IF NOT EXISTS range_estimate ON vehicle_details TYPE int;
    DEFINE FIELD IF NOT EXISTS range_unit ON vehicle_details TYPE string DEFAULT 'miles';
    DEFINE FIELD IF NOT EXISTS battery_health ON vehicle_details TYPE int;
    DEFINE FIELD IF NOT EXISTS battery_capacity ON vehicle_details TYPE int;
    DEFINE FIELD IF NOT EXISTS warranty_expires ON vehicle_details TYPE string;
    DEFINE FIELD IF NOT EXISTS warranty_type ON vehicle_details TYPE string;

    DEFINE INDEX IF NOT EXISTS vehicle_details_vin ON vehicle_details FIELDS vin UNIQUE;

    -- ==========================================================================
    -- DEALER TABLE (service centers)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS dealer SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS name ON dealer TYPE string;
    DEFINE FIELD IF NOT EXISTS location ON dealer TYPE string;
    DEFINE FIELD IF NOT EXISTS distance ON dealer TYPE string;
    DEFINE FIELD IF NOT EXISTS rating ON dealer TYPE option<float>;
    DEFINE FIELD IF NOT EXISTS services ON dealer TYPE array<string> DEFAULT [];

    -- ==========================================================================
    -- SERVICE RECORD TABLE (per-vehicle maintenance history)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS service_record SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS vin ON service_record TYPE string;
    DEFINE FIELD IF NOT EXISTS date ON service_record TYPE string;
    DEFINE FIELD IF NOT EXISTS service ON service_record TYPE string;
    DEFINE FIELD IF NOT EXISTS cost ON service_record TYPE float DEFAULT 0.0;
    DEFINE FIELD IF NOT EXISTS notes ON service_record TYPE string DEFAULT '';

    DEFINE INDEX IF NOT EXISTS service_record_vin ON service_record FIELDS vin;

    -- ==========================================================================
    -- CONVERSATION / TURN TABLES (archived transcripts)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS conversation SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS title ON conversation TYPE string;
    DEFINE FIELD IF NOT EXISTS turn_count ON conversation TYPE int DEFAULT 0;
    DEFINE FIELD IF NOT EXISTS created ON conversation TYPE datetime DEFAULT time::now();

    DEFINE TABLE IF NOT EXISTS turn SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS conversation ON turn TYPE record<conversation>;
    DEFINE FIELD IF NOT EXISTS seq ON turn TYPE int;
    DEFINE FIELD IF NOT EXISTS sender ON turn TYPE string ASSERT $value IN ['user', 'agent'];
    DEFINE FIELD IF NOT EXISTS text ON turn TYPE string DEFAULT '';
    DEFINE FIELD IF NOT EXISTS tool_name ON turn TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS tool_payload ON turn FLEXIBLE TYPE option<object>;
    DEFINE FIELD IF NOT EXISTS error ON turn TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS created ON turn TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS turn_conversation ON turn FIELDS conversation;
`
